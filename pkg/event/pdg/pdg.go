// Package pdg maps Particle Data Group species codes to display names.
//
// The table covers the species that show up in practice in Pythia8, HepMC,
// LHE, and CMSSW listings: quarks, leptons, gauge and Higgs bosons, diquarks,
// and the common light/heavy hadrons. Unknown codes fall back to the numeric
// string so diagrams never lose information.
package pdg

import (
	"strconv"
	"strings"
)

// names maps positive PDG codes to their Pythia8-style display names.
var names = map[int]string{
	1: "d", 2: "u", 3: "s", 4: "c", 5: "b", 6: "t",
	11: "e-", 12: "nu_e", 13: "mu-", 14: "nu_mu", 15: "tau-", 16: "nu_tau",
	21: "g", 22: "gamma", 23: "Z0", 24: "W+", 25: "h0",
	32: "Z'0", 33: "Z''0", 34: "W'+", 35: "H0", 36: "A0", 37: "H+",
	39: "Graviton", 90: "system",

	// diquarks
	1103: "dd_1", 2101: "ud_0", 2103: "ud_1", 2203: "uu_1",
	3101: "sd_0", 3103: "sd_1", 3201: "su_0", 3203: "su_1", 3303: "ss_1",

	// light unflavoured mesons
	111: "pi0", 211: "pi+", 113: "rho0", 213: "rho+", 115: "a_20", 215: "a_2+",
	221: "eta", 331: "eta'", 223: "omega", 333: "phi",

	// strange mesons
	130: "K_L0", 310: "K_S0", 311: "K0", 321: "K+", 313: "K*0", 323: "K*+",

	// charm mesons
	411: "D+", 421: "D0", 413: "D*+", 423: "D*0", 431: "D_s+", 433: "D*_s+",
	441: "eta_c", 443: "J/psi", 445: "chi_2c",

	// bottom mesons
	511: "B0", 521: "B+", 513: "B*0", 523: "B*+", 531: "B_s0", 533: "B*_s0",
	541: "B_c+", 551: "eta_b", 553: "Upsilon",

	// baryons
	2212: "p+", 2112: "n0", 2224: "Delta++", 2214: "Delta+",
	2114: "Delta0", 1114: "Delta-",
	3122: "Lambda0", 3222: "Sigma+", 3212: "Sigma0", 3112: "Sigma-",
	3224: "Sigma*+", 3214: "Sigma*0", 3114: "Sigma*-",
	3322: "Xi0", 3312: "Xi-", 3324: "Xi*0", 3314: "Xi*-", 3334: "Omega-",
	4122: "Lambda_c+", 4222: "Sigma_c++", 4212: "Sigma_c+", 4112: "Sigma_c0",
	4232: "Xi_c+", 4132: "Xi_c0", 4332: "Omega_c0",
	5122: "Lambda_b0", 5222: "Sigma_b+", 5112: "Sigma_b-",
	5232: "Xi_b0", 5132: "Xi_b-", 5332: "Omega_b-",
}

// antiNames lists the antiparticles whose name is not formed by the plain
// "bar" suffix: charged species flip sign instead.
var antiNames = map[int]string{
	-11: "e+", -13: "mu+", -15: "tau+",
	-24: "W-", -34: "W'-", -37: "H-",
	-211: "pi-", -213: "rho-", -215: "a_2-",
	-321: "K-", -323: "K*-",
	-411: "D-", -413: "D*-", -431: "D_s-", -433: "D*_s-",
	-511: "Bbar0", -521: "B-", -513: "B*bar0", -523: "B*-",
	-531: "B_sbar0", -533: "B*_sbar0", -541: "B_c-",
	-2212: "pbar-", -2112: "nbar0",
	-2224: "Deltabar--", -2214: "Deltabar-", -2114: "Deltabar0", -1114: "Deltabar+",
	-3122: "Lambdabar0", -3222: "Sigmabar-", -3212: "Sigmabar0", -3112: "Sigmabar+",
	-3322: "Xibar0", -3312: "Xibar+", -3334: "Omegabar+",
	-4122: "Lambda_cbar-", -5122: "Lambda_bbar0",
}

// selfConjugate are species that are their own antiparticle, where a
// negative code (rare, but some generators emit it) reads the same.
var selfConjugate = map[int]bool{
	21: true, 22: true, 23: true, 25: true, 90: true,
	111: true, 221: true, 331: true, 223: true, 333: true,
	130: true, 310: true, 441: true, 443: true, 551: true, 553: true,
}

// Name returns the display name for a PDG code.
//
// Negative codes resolve through the explicit antiparticle table first,
// then fall back to the base name with a "bar" suffix. Codes absent from
// the table entirely come back as their decimal string.
func Name(id int) string {
	if n, ok := names[id]; ok {
		return n
	}
	if id < 0 {
		if n, ok := antiNames[id]; ok {
			return n
		}
		if selfConjugate[-id] {
			return names[-id]
		}
		if n, ok := names[-id]; ok {
			return n + "bar"
		}
	}
	return strconv.Itoa(id)
}

// Known reports whether the code has a table entry.
func Known(id int) bool {
	if _, ok := names[id]; ok {
		return true
	}
	if _, ok := antiNames[id]; ok {
		return true
	}
	return id < 0 && names[-id] != ""
}

// Strip removes enclosing decoration pairs from a display name.
//
// Pythia8 wraps intermediate-state names in parentheses and some listings
// use square brackets; both are peeled off, repeatedly, so "((g))" and
// "[b]" reduce to "g" and "b". Interior brackets, as in "K*_0(1430)+",
// are left alone.
func Strip(name string) string {
	for len(name) >= 2 {
		open, close := name[0], name[len(name)-1]
		if (open == '(' && close == ')') || (open == '[' && close == ']') {
			name = name[1 : len(name)-1]
			continue
		}
		break
	}
	return strings.TrimSpace(name)
}
