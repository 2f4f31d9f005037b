package interactions

import (
	"sort"
	"sync"
)

// builtinInteractions is the compiled-in table, keyed by drug then partner.
// Some pairs are listed from both sides; both sides must carry the same severity.
var builtinInteractions = map[string]map[string]Severity{
	"Aspirin": {
		"Warfarin":     Major,
		"Ibuprofen":    Moderate,
		"Methotrexate": Major,
	},
	"Warfarin": {
		"Aspirin":                     Major,
		"Ibuprofen":                   Major,
		"Clarithromycin":              Major,
		"Paracetamol (Acetaminophen)": Moderate,
	},
	"Ibuprofen": {
		"Aspirin":      Moderate,
		"Warfarin":     Major,
		"Prednisolone": Moderate,
	},
	"Paracetamol (Acetaminophen)": {
		"Warfarin": Moderate,
	},
}

// SupplementaryDrugs are selectable names with no recorded interactions
var SupplementaryDrugs = []string{
	"Naproxen", "Diclofenac", "Mefenamic acid", "Ketorolac", "Aceclofenac", "Etoricoxib", "Cetirizine",
	"Loratadine", "Fexofenadine", "Levocetirizine", "Diphenhydramine",
	"Chlorpheniramine (CPM)", "Montelukast", "Desloratadine", "Azelastine nasal spray",
	"Xylometazoline nasal spray", "Oxymetazoline nasal spray", "Dextromethorphan",
	"Phenylephrine", "Guaifenesin", "Bromhexine", "Ambroxol", "Pseudoephedrine",
	"Omeprazole", "Pantoprazole", "Esomeprazole", "Rabeprazole", "Ranitidine",
	"Famotidine", "Domperidone", "Ondansetron", "Metoclopramide", "Sucralfate",
	"Activated charcoal", "Loperamide", "ORS (Oral Rehydration Salts)", "Digene antacid",
	"Calcium carbonate antacid", "Simethicone", "Lactulose", "Psyllium husk", "Vitamin C",
	"Multivitamin tablets", "Vitamin B-complex", "Vitamin D3", "Calcium + Vitamin D",
	"Zinc supplements", "Iron + Folic acid", "Magnesium supplements", "Omega-3 (Fish oil)",
	"Probiotics", "Hydrocortisone cream", "Clotrimazole cream", "Terbinafine cream",
	"Ketoconazole cream", "Miconazole ointment", "Neomycin cream", "Fusidic acid ointment",
	"Betamethasone cream", "Silver sulfadiazine", "Calamine lotion", "Benzoyl peroxide",
	"Salicylic acid", "Aloe vera gel", "Zinc oxide ointment", "Antiseptic liquid (Dettol/Savlon)",
	"Amoxicillin", "Amoxicillin + Clavulanic acid", "Azithromycin", "Cefixime", "Cephalexin",
	"Ciprofloxacin", "Levofloxacin", "Doxycycline", "Metronidazole", "Erythromycin",
	"Clarithromycin", "Trimethoprim + Sulfamethoxazole", "Nitrofurantoin", "Clindamycin",
	"Linezolid", "Salbutamol inhaler", "Budesonide inhaler", "Fluticasone inhaler",
	"Ipratropium bromide inhaler", "Formoterol", "Tiotropium", "Metformin", "Glimepiride",
	"Gliclazide", "Sitagliptin", "Dapagliflozin", "Insulin (various)", "Pioglitazone",
	"Linagliptin", "Amlodipine", "Telmisartan", "Losartan", "Atenolol", "Metoprolol",
	"Propranolol", "Ramipril", "Enalapril", "Carvedilol", "Hydrochlorothiazide",
	"Furosemide", "Spironolactone", "Clopidogrel", "Atorvastatin", "Rosuvastatin",
	"Levothyroxine", "Carbimazole", "Progesterone", "Estradiol", "Prednisolone",
	"Povidone iodine", "Hydrogen peroxide", "Sterile saline", "Crepe bandages", "Band-aids",
	"Gauze pads", "Burn gel", "Icepacks", "Gloves", "Thermometer strips", "Hot water bag",
	"Cetirizine + Phenylephrine tablets", "Paracetamol + Caffeine", "Oral contraceptive pills",
	"Pregnancy test kit", "Motion sickness tablets (Dimenhydrinate)", "Melatonin",
	"Antacid chewable tablets", "Nicotine gum", "Lidocaine gel", "B-12 injections",
	"Rehydration electrolyte tablets",
}

var (
	defaultOnce     sync.Once
	defaultRegistry *Registry
)

// BuiltinInteractions flattens the compiled-in table into triples, in a stable order.
func BuiltinInteractions() []Interaction {
	drugs := make([]string, 0, len(builtinInteractions))
	for drug := range builtinInteractions {
		drugs = append(drugs, drug)
	}
	sort.Strings(drugs)

	var triples []Interaction
	for _, drug := range drugs {
		partners := make([]string, 0, len(builtinInteractions[drug]))
		for partner := range builtinInteractions[drug] {
			partners = append(partners, partner)
		}
		sort.Strings(partners)

		for _, partner := range partners {
			triples = append(triples, Interaction{
				DrugA:    drug,
				DrugB:    partner,
				Severity: builtinInteractions[drug][partner],
			})
		}
	}
	return triples
}

// Default returns the process-wide registry built from the compiled-in data.
// It panics if the compiled-in table is inconsistent, which the tests guard against.
func Default() *Registry {
	defaultOnce.Do(func() {
		r, err := New(BuiltinInteractions(), SupplementaryDrugs)
		if err != nil {
			panic("interactions: invalid built-in table: " + err.Error())
		}
		defaultRegistry = r
	})
	return defaultRegistry
}
