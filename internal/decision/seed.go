package decision

// defaultGraph is the built-in IMCI symptom flowchart, set by init().
var defaultGraph *Graph

func init() {
	defaultGraph = MustGraph("start", seedNodes())
	defaultGraph.name = "IMCI symptom flowchart"
	defaultGraph.version = "1.0.0"
}

// Default returns the built-in IMCI graph.
func Default() *Graph { return defaultGraph }

func opt(label, value, next string, delta float64) Option {
	return Option{Label: label, Value: value, Next: next, RiskDelta: delta}
}

func dangerSigns(id string) Node {
	return Question(id, "Does the child have any of these danger signs?",
		opt("Not able to feed/drink", "cannot_feed", "emergency", 10),
		opt("Vomits everything", "vomits_all", "emergency", 10),
		opt("Has had convulsions", "convulsions", "emergency", 15),
		opt("Lethargic or unconscious", "unconscious", "emergency", 15),
		opt("None of the above", "no_danger", "main_symptoms", 0),
	)
}

func seedNodes() []Node {
	return []Node{
		Question("start", "What is the child's age?",
			opt("2-11 months", "2-11_months", "age_2_11", 0),
			opt("12-59 months", "12-59_months", "age_12_59", 0),
			opt("Under 2 months", "under_2_months", "newborn_danger", 0),
		),
		dangerSigns("age_2_11"),
		dangerSigns("age_12_59"),
		Question("newborn_danger", "Does the baby have any of these signs?",
			opt("Fast breathing (60+ breaths/min)", "fast_breathing", "emergency", 12),
			opt("Chest indrawing", "chest_indrawing", "emergency", 15),
			opt("Fever or low body temperature", "fever_hypothermia", "emergency", 10),
			opt("Not feeding well", "poor_feeding", "urgent", 8),
			opt("None of the above", "no_newborn_danger", "newborn_assessment", 0),
		),
		Question("main_symptoms", "What is the main problem today?",
			opt("Cough or difficult breathing", "cough_breathing", "cough_assessment", 3),
			opt("Diarrhea", "diarrhea", "diarrhea_assessment", 2),
			opt("Fever", "fever", "fever_assessment", 3),
			opt("Ear problem", "ear_problem", "ear_assessment", 1),
			opt("Malnutrition concern", "malnutrition", "nutrition_assessment", 4),
		),

		// Cough or difficult breathing
		Question("cough_assessment", "How long has the child had cough?",
			opt("Less than 14 days", "cough_acute", "breathing_assessment", 2),
			opt("14 days or more", "cough_chronic", "chronic_cough", 4),
		),
		Question("breathing_assessment", "Check the child's breathing:",
			opt("Fast breathing (2-11m: 50+, 12-59m: 40+)", "fast_breathing", "pneumonia", 6),
			opt("Chest indrawing", "chest_indrawing", "severe_pneumonia", 10),
			opt("Normal breathing", "normal_breathing", "cough_cold", 1),
		),

		// Diarrhoea
		Question("diarrhea_assessment", "How long has the child had diarrhea?",
			opt("Less than 14 days", "acute_diarrhea", "dehydration_check", 2),
			opt("14 days or more", "persistent_diarrhea", "persistent_diarrhea_result", 5),
		),
		Question("dehydration_check", "Check for signs of dehydration:",
			opt("Two or more signs: restless/irritable, sunken eyes, drinks eagerly/thirsty, skin pinch slow",
				"some_dehydration", "some_dehydration_result", 6),
			opt("Lethargic/unconscious, sunken eyes, cannot drink, skin pinch very slow",
				"severe_dehydration", "severe_dehydration_result", 12),
			opt("No signs of dehydration", "no_dehydration", "no_dehydration_result", 1),
		),

		// Fever
		Question("fever_assessment", "Does the child have any of these with the fever?",
			opt("Stiff neck", "stiff_neck", "very_severe_febrile_disease", 10),
			opt("Positive malaria test or lives in a malaria area", "malaria_risk", "malaria", 4),
			opt("Fever present every day for 7 days or more", "fever_7_days", "persistent_fever", 5),
			opt("None of the above", "no_fever_signs", "fever_no_malaria", 1),
		),

		// Ear problem
		Question("ear_assessment", "Check the child's ear:",
			opt("Tender swelling behind the ear", "mastoid_swelling", "mastoiditis", 10),
			opt("Ear pain or pus draining for less than 14 days", "ear_pain", "acute_ear_infection", 2),
			opt("Pus draining for 14 days or more", "ear_discharge_chronic", "chronic_ear_infection", 3),
			opt("No ear pain and no pus", "no_ear_signs", "no_ear_infection", 0),
		),

		// Nutrition
		Question("nutrition_assessment", "Check for signs of malnutrition:",
			opt("Oedema of both feet", "oedema", "severe_malnutrition", 10),
			opt("Visible severe wasting", "severe_wasting", "severe_malnutrition", 8),
			opt("Very low weight for age or poor weight gain", "low_weight", "moderate_malnutrition", 4),
			opt("No signs of malnutrition", "no_malnutrition_signs", "no_malnutrition", 0),
		),

		// Results
		Result("emergency", RiskCritical, "EMERGENCY: Refer URGENTLY to hospital",
			"Call ambulance or arrange immediate transport",
			"Give first dose of antibiotic if available",
			"Keep child warm",
			"Continue breastfeeding if conscious",
		),
		Result("urgent", RiskHigh, "URGENT: Refer to health facility today",
			"Arrange transport to nearest health facility",
			"Give paracetamol for fever",
			"Continue feeding",
			"Return immediately if condition worsens",
		),
		Result("newborn_assessment", RiskLow, "No signs of serious infection: Home care for the young infant",
			"Breastfeed exclusively and frequently, day and night",
			"Keep the young infant warm at all times",
			"Return immediately if the infant stops feeding or breathing becomes fast",
			"Follow up in 2 days if there was any feeding problem",
		),
		Result("pneumonia", RiskMedium, "Pneumonia: Give antibiotic and follow up",
			"Give appropriate antibiotic (Amoxicillin)",
			"Advise on home care",
			"Follow up in 2 days",
			"Return immediately if breathing becomes difficult",
		),
		Result("severe_pneumonia", RiskHigh, "Severe Pneumonia: Refer urgently",
			"Refer urgently to hospital",
			"Give first dose of antibiotic",
			"Manage fever",
			"Keep warm and continue feeding",
		),
		Result("chronic_cough", RiskMedium, "Cough for 14 days or more: Refer for assessment of tuberculosis and asthma",
			"Refer for further assessment",
			"Soothe the throat with a safe remedy",
			"Check for contact with a tuberculosis case",
		),
		Result("cough_cold", RiskLow, "No pneumonia: Cough or cold",
			"Soothe the throat and relieve the cough with a safe remedy",
			"Advise on home care",
			"Follow up in 5 days if not improving",
			"Return immediately if breathing becomes fast or difficult",
		),
		Result("persistent_diarrhea_result", RiskMedium, "Persistent diarrhoea: Advise on feeding and follow up",
			"Give ORS and extra fluids",
			"Give zinc for 10 to 14 days",
			"Advise the mother on feeding a child with persistent diarrhoea",
			"Follow up in 5 days",
		),
		Result("some_dehydration_result", RiskMedium, "Some dehydration: Give fluid and food (Plan B)",
			"Give ORS in the clinic over 4 hours",
			"Give zinc supplements",
			"Reassess after 4 hours",
			"Continue breastfeeding",
		),
		Result("severe_dehydration_result", RiskCritical, "Severe dehydration: Give IV fluids and refer URGENTLY (Plan C)",
			"Start IV fluids immediately if trained",
			"Give ORS by sip on the way if the child can drink",
			"Refer urgently to hospital",
			"Continue breastfeeding if possible",
		),
		Result("no_dehydration_result", RiskLow, "No dehydration: Treat diarrhoea at home (Plan A)",
			"Give extra fluids and continue feeding",
			"Give zinc supplements for 10 to 14 days",
			"Return immediately if the child drinks poorly or has blood in stool",
		),
		Result("very_severe_febrile_disease", RiskCritical, "Very severe febrile disease: Refer URGENTLY",
			"Give first dose of an appropriate antibiotic",
			"Treat the child to prevent low blood sugar",
			"Give one dose of paracetamol for high fever",
			"Refer urgently to hospital",
		),
		Result("malaria", RiskMedium, "Malaria: Give an oral antimalarial",
			"Give artemether-lumefantrine according to weight",
			"Give paracetamol for high fever",
			"Follow up in 3 days if fever persists",
			"Return immediately if danger signs develop",
		),
		Result("persistent_fever", RiskHigh, "Fever for 7 days or more: Refer for assessment",
			"Refer to a health facility for assessment",
			"Give paracetamol for high fever",
			"Encourage fluids and continue feeding",
		),
		Result("fever_no_malaria", RiskLow, "Fever, no malaria: Treat other causes",
			"Give paracetamol for high fever",
			"Follow up in 2 days if fever persists",
			"Return immediately if danger signs develop",
		),
		Result("mastoiditis", RiskHigh, "Mastoiditis: Refer urgently",
			"Give first dose of an appropriate antibiotic",
			"Give paracetamol for pain",
			"Refer urgently to hospital",
		),
		Result("acute_ear_infection", RiskLow, "Acute ear infection: Give antibiotic and dry the ear",
			"Give amoxicillin for 5 days",
			"Give paracetamol for pain",
			"Dry the ear by wicking",
			"Follow up in 5 days",
		),
		Result("chronic_ear_infection", RiskMedium, "Chronic ear infection: Dry the ear and follow up",
			"Dry the ear by wicking",
			"Treat with topical quinolone ear drops for 2 weeks",
			"Follow up in 5 days",
		),
		Result("no_ear_infection", RiskLow, "No ear infection: No additional treatment",
			"Advise on home care",
		),
		Result("severe_malnutrition", RiskHigh, "Severe acute malnutrition: Refer urgently or start outpatient therapeutic care",
			"Check for medical complications",
			"Give first dose of an appropriate antibiotic",
			"Keep the child warm",
			"Refer urgently if complications or oedema are present",
		),
		Result("moderate_malnutrition", RiskMedium, "Moderate acute malnutrition: Assess feeding and counsel",
			"Assess the child's feeding and counsel the caregiver",
			"Give supplementary food if available",
			"Follow up in 30 days",
		),
		Result("no_malnutrition", RiskLow, "No acute malnutrition",
			"Praise the caregiver for feeding the child well",
			"Continue growth monitoring",
		),
	}
}
