package catalog

import "github.com/zatekoja/wellnessintake/backend/internal/domain/entities"

// WellnessFormName is the name of the built-in wellness intake form.
const WellnessFormName = "wellness_intake"

func ptrFloat(v float64) *float64 { return &v }
func ptrInt(v int) *int           { return &v }

func rangeValidation(min, max float64) *entities.FieldValidation {
	return &entities.FieldValidation{Min: ptrFloat(min), Max: ptrFloat(max)}
}

func listValidation(maxItems int) *entities.FieldValidation {
	return &entities.FieldValidation{MaxItems: ptrInt(maxItems)}
}

var wellnessFields = []entities.FieldDefinition{
	// demographics
	{
		Key: "age", Type: entities.FieldTypeNumber, Required: true,
		Validation: rangeValidation(16, 100),
		UI:         &entities.FieldUI{Label: "Age", Placeholder: "Enter your age", Group: "demographics", Priority: 1, Widget: "number"},
	},
	{
		Key: "gender", Type: entities.FieldTypeString,
		Enum: []string{"male", "female", "other"},
		UI:   &entities.FieldUI{Label: "Gender", Group: "demographics", Priority: 2, Widget: "select"},
	},
	{
		Key: "weight", Type: entities.FieldTypeNumber,
		Validation: rangeValidation(30, 300),
		UI:         &entities.FieldUI{Label: "Weight (kg)", Placeholder: "Enter your weight", Group: "demographics", Priority: 3, Widget: "number"},
	},
	{
		Key: "height", Type: entities.FieldTypeNumber,
		Validation: rangeValidation(100, 250),
		UI:         &entities.FieldUI{Label: "Height (cm)", Placeholder: "Enter your height", Group: "demographics", Priority: 4, Widget: "number"},
	},
	{
		Key: "location", Type: entities.FieldTypeString,
		UI: &entities.FieldUI{Label: "Location", Placeholder: "City, Country", Group: "demographics", Priority: 5},
	},

	// biometrics
	{
		Key: "sleep_duration", Type: entities.FieldTypeNumber,
		Validation: rangeValidation(3, 12),
		UI:         &entities.FieldUI{Label: "Sleep Duration (hours)", Placeholder: "How many hours do you sleep", Group: "biometrics", Priority: 6, Widget: "number"},
	},
	{
		Key: "sleep_quality", Type: entities.FieldTypeString,
		Enum: []string{"poor", "average", "good"},
		UI:   &entities.FieldUI{Label: "Sleep Quality", Group: "biometrics", Priority: 7, Widget: "select"},
	},
	{
		Key: "daily_steps", Type: entities.FieldTypeNumber,
		Validation: rangeValidation(0, 50000),
		UI:         &entities.FieldUI{Label: "Daily Steps", Placeholder: "Average number of steps", Group: "biometrics", Priority: 8, Widget: "number"},
	},
	{
		Key: "resting_heart_rate", Type: entities.FieldTypeNumber,
		Validation: rangeValidation(40, 150),
		UI:         &entities.FieldUI{Label: "Resting Heart Rate (bpm)", Placeholder: "Enter your resting heart rate", Group: "biometrics", Priority: 9, Widget: "number"},
	},
	{
		Key: "stress_level", Type: entities.FieldTypeString,
		Enum: []string{"low", "moderate", "high"},
		UI:   &entities.FieldUI{Label: "Stress Level", Group: "biometrics", Priority: 10, Widget: "select"},
	},

	// lifestyle
	{
		Key: "work_schedule", Type: entities.FieldTypeString,
		UI: &entities.FieldUI{Label: "Work Schedule", Placeholder: "Describe your work schedule", Group: "lifestyle", Priority: 11, Widget: "textarea"},
	},
	{
		Key: "nutrition_habits", Type: entities.FieldTypeArray,
		Validation: listValidation(10),
		UI:         &entities.FieldUI{Label: "Nutrition Habits", Placeholder: "Describe your nutrition habits", Group: "lifestyle", Priority: 12, Widget: "tags"},
	},

	// goals
	{
		Key: "health_goals", Type: entities.FieldTypeArray,
		Validation: listValidation(10),
		UI:         &entities.FieldUI{Label: "Health Goals", Placeholder: "Add your health goals", Group: "goals", Priority: 13, Widget: "tags"},
	},
	{
		Key: "activity_preferences", Type: entities.FieldTypeArray,
		Validation: listValidation(10),
		UI:         &entities.FieldUI{Label: "Activity Preferences", Placeholder: "What activities do you enjoy", Group: "goals", Priority: 14, Widget: "tags"},
	},

	// medical
	{
		Key: "chronic_conditions", Type: entities.FieldTypeArray,
		Validation: listValidation(10),
		UI:         &entities.FieldUI{Label: "Chronic Conditions", Placeholder: "List any chronic conditions", Group: "medical", Priority: 15, Widget: "tags"},
	},
	{
		Key: "medications", Type: entities.FieldTypeArray,
		Validation: listValidation(20),
		UI:         &entities.FieldUI{Label: "Medications", Placeholder: "Medications you are taking", Group: "medical", Priority: 16, Widget: "tags"},
	},
	{
		Key: "contraindications", Type: entities.FieldTypeArray,
		Validation: listValidation(10),
		UI:         &entities.FieldUI{Label: "Contraindications", Placeholder: "Contraindications to procedures", Group: "medical", Priority: 17, Widget: "tags"},
	},
}

var wellnessStages = []entities.StageDefinition{
	{
		ID:          "demographics_baseline",
		Name:        "Basic Information",
		Description: "Collect basic demographic data",
		Targets:     []string{"age", "gender", "weight", "height", "location"},
		Order:       1,
	},
	{
		ID:          "biometrics_habits",
		Name:        "Biometrics and Habits",
		Description: "Daily habits, sleep, activity, and biometric data",
		Targets:     []string{"sleep_duration", "sleep_quality", "daily_steps", "resting_heart_rate", "stress_level"},
		Order:       2,
	},
	{
		ID:          "lifestyle_context",
		Name:        "Lifestyle Context",
		Description: "Work, family, and lifestyle factors",
		Targets:     []string{"work_schedule", "nutrition_habits"},
		Order:       3,
	},
	{
		ID:          "medical_history",
		Name:        "Medical Information",
		Description: "Medical history, conditions, and contraindications",
		Targets:     []string{"chronic_conditions", "medications", "contraindications"},
		Order:       4,
	},
	{
		ID:          "goals_preferences",
		Name:        "Goals and Preferences",
		Description: "Health goals and activity preferences",
		Targets:     []string{"health_goals", "activity_preferences"},
		Order:       5,
	},
}

type stagePrompt struct {
	name        string
	description string
	content     entities.PromptContent
}

var wellnessPrompts = map[string]stagePrompt{
	"demographics_baseline": {
		name:        "Demographics Collection",
		description: "Collect basic demographic information and physical data",
		content: entities.PromptContent{
			MainPrompt: `Let's get acquainted! 😊 Tell me a bit about yourself - your age, where you live, and basic physical data (height, weight). This will help me understand you better.

I'm looking to learn about:
- Your age
- Gender
- Current weight (in kg)
- Height (in cm)
- Location/city

Feel free to share whatever you're comfortable with - we can fill in details as we go!`,
			FollowUpPrompt:   "To get a complete picture, could you also share your {missing_fields}? This helps me give better recommendations.",
			ValidationPrompt: "I want to make sure I have the correct {field_name}. Could you double-check that for me?",
			CompletionPrompt: "Perfect! Now I have your basic info. Let's talk about your daily habits and lifestyle patterns.",
		},
	},
	"biometrics_habits": {
		name:        "Biometrics and Habits",
		description: "Assess daily habits, sleep, activity, and biometric data",
		content: entities.PromptContent{
			MainPrompt: `Excellent! Now let's talk about your habits 📊 How much do you usually sleep? How about physical activity - walking, steps? What about nutrition and general well-being?

I'm interested in:
- Sleep duration (hours per night)
- Sleep quality (good, poor, average)
- Daily steps or physical activity
- Resting heart rate (if you know it)
- Stress levels (low, moderate, high)
- Nutrition habits and eating patterns

Share what you know - even approximate answers help!`,
			FollowUpPrompt:   "Could you also tell me about your {missing_fields}? This helps me understand your daily patterns better.",
			ValidationPrompt: "I want to make sure I understand your {field_name} correctly. Could you clarify that for me?",
			CompletionPrompt: "Great! I'm getting a good picture of your daily habits. Now let's discuss your work and lifestyle context.",
		},
	},
	"lifestyle_context": {
		name:        "Lifestyle Context",
		description: "Understand work, family, and lifestyle context",
		content: entities.PromptContent{
			MainPrompt: `Good! Now it's important to understand your lifestyle 🏢 Tell me about work, schedule, family matters. What affects your day and how do you recover?

I'd like to know about:
- Work schedule and type of job
- Workload and stress from work
- Family obligations and responsibilities
- How you recover and relax
- What affects your daily routine

This helps me understand what factors influence your wellness.`,
			FollowUpPrompt:   "Could you also share about your {missing_fields}? Understanding your full context helps with recommendations.",
			ValidationPrompt: "I want to make sure I understand your {field_name} situation correctly. Could you clarify?",
			CompletionPrompt: "Perfect! I understand your lifestyle context. Now let's move to an important topic - health considerations.",
		},
	},
	"medical_history": {
		name:        "Medical History",
		description: "Collect medical history, conditions, and contraindications",
		content: entities.PromptContent{
			MainPrompt: `Let's move to an important topic - health 🏥 Are there any health issues, injuries, medications, or limitations? If everything is fine - just say there are no problems.

I'm asking about:
- Chronic health conditions or ongoing issues
- Past injuries that might affect activities
- Current medications or supplements
- Any restrictions or contraindications for exercise
- Health considerations I should know about

Be especially careful with medical information - only share what you're comfortable with and what's relevant.`,
			FollowUpPrompt:   "If you have any information about {missing_fields}, please share it. Otherwise, that's completely fine.",
			ValidationPrompt: "I want to make sure I have accurate information about your {field_name}. Could you clarify that?",
			CompletionPrompt: "Thank you for the health information. Finally, let's talk about your goals and what you want to achieve!",
		},
	},
	"goals_preferences": {
		name:        "Goals and Preferences",
		description: "Define health goals and activity preferences",
		content: entities.PromptContent{
			MainPrompt: `And finally - your goals! 🎯 What do you want to achieve? What activities do you enjoy? Do you prefer working out in the morning or evening? What approach works best for you?

I'm interested in:
- Your main health and fitness goals
- Preferred types of physical activities
- Whether you're more of a morning or evening person
- What coaching style works for you (strict, flexible, supportive)
- Current motivation level
- Any specific interests or hobbies

This helps me understand what kind of recommendations will actually work for your life!`,
			FollowUpPrompt:   "Could you also share your thoughts on {missing_fields}? This helps me tailor recommendations to your preferences.",
			ValidationPrompt: "I want to make sure I understand your {field_name} correctly. Could you clarify what you meant?",
			CompletionPrompt: "Perfect! I now have all the information I need 🎉 Thank you for sharing so much detail. I can now provide you with personalized wellness recommendations that fit your life and goals!",
		},
	},
}

var wellnessMetadata = entities.PromptMetadata{
	Tone:       "friendly",
	Style:      "conversational",
	Length:     "medium",
	Difficulty: "simple",
}
