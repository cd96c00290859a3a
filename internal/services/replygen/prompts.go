// internal/services/replygen/prompts.go
package replygen

import "insurance-intake/internal/models"

const basePrompt = `You are a friendly, professional insurance onboarding assistant. Your role is to collect information from users in a conversational way. Be concise but warm.

CRITICAL RULES:
1. You MUST ONLY ask the question specified in your current task - nothing else
2. NEVER skip ahead to other questions or topics
3. Always acknowledge what the user just provided, then IMMEDIATELY ask the EXACT question specified in your current task
4. If the user seems frustrated, upset, or asks to speak with a human, respond with empathy and include the phrase [FRUSTRATED_USER] at the start of your response
5. Validate inputs naturally (e.g., if email looks invalid, politely ask them to check it)
6. Keep responses brief - one or two sentences when asking for information
7. Don't repeat information the user has already provided
8. NEVER say things like "That's all the information I need" or "We're all set" or "Do you have any other vehicles" unless the current task explicitly says to ask that
`

// statePrompts tells the model exactly what to ask for next. Keyed by
// the state the conversation is in AFTER the turn's transition.
var statePrompts = map[models.State]string{
	models.StateZipCode:           "Ask for their ZIP code. Validate it's a 5-digit number.",
	models.StateFullName:          "Briefly acknowledge their ZIP code, then ask for their full name.",
	models.StateEmail:             "Briefly acknowledge their name, then ask for their email address.",
	models.StateVehicleChoice:     "Briefly acknowledge their email, then ask if they want to provide a VIN number OR enter Year, Make, and Body Type manually.",
	models.StateVehicleVIN:        "Ask for their vehicle's VIN (17 characters).",
	models.StateVehicleYear:       "Ask for the vehicle's year.",
	models.StateVehicleMake:       "Acknowledge the year, then ask for the vehicle's make (e.g., Toyota, Ford, Honda).",
	models.StateVehicleBody:       "Acknowledge the make, then ask for the vehicle's body type (e.g., Sedan, SUV, Truck, Coupe).",
	models.StateVehicleUse:        "Acknowledge the vehicle details, then ask how they use this vehicle. Options: Commuting, Commercial, Farming, or Business.",
	models.StateBlindSpotWarning:  "Acknowledge the vehicle use, then ask if the vehicle has blind spot warning equipment (Yes/No).",
	models.StateCommuteDays:       "Acknowledge their response, then ask how many days per week they use this vehicle for commuting.",
	models.StateCommuteMiles:      "Acknowledge the days, then ask about one-way miles to work/school.",
	models.StateAnnualMileage:     "Acknowledge their commute distance, then ask for their estimated ANNUAL MILEAGE for this vehicle. Do NOT ask about other vehicles or license yet - ONLY ask for annual mileage.",
	models.StateAddAnotherVehicle: "Acknowledge the information collected, then ask if they want to add another vehicle to their policy.",
	models.StateLicenseType:       "Acknowledge the vehicle information is complete, then ask about their US license type. Options: Foreign, Personal, or Commercial.",
	models.StateLicenseStatus:     "Acknowledge the license type, then ask about their license status: Valid or Suspended.",
	models.StateComplete:          "Thank them warmly and let them know their information has been collected successfully. Keep it brief and positive.",
}

// fallbackReplies keep the conversation moving when generation fails.
var fallbackReplies = map[models.State]string{
	models.StateZipCode:           "Could you please provide your ZIP code?",
	models.StateFullName:          "What is your full name?",
	models.StateEmail:             "What is your email address?",
	models.StateVehicleChoice:     "Would you like to enter a VIN or provide Year, Make, and Body Type?",
	models.StateVehicleVIN:        "Please enter the 17-character VIN.",
	models.StateVehicleYear:       "What year is the vehicle?",
	models.StateVehicleMake:       "What is the make of the vehicle?",
	models.StateVehicleBody:       "What is the body type?",
	models.StateVehicleUse:        "How do you use this vehicle? (Commuting, Commercial, Farming, Business)",
	models.StateBlindSpotWarning:  "Does this vehicle have blind spot warning? (Yes/No)",
	models.StateCommuteDays:       "How many days per week do you commute?",
	models.StateCommuteMiles:      "How many miles is your one-way commute?",
	models.StateAnnualMileage:     "Thank you! Now, what is your estimated annual mileage for this vehicle?",
	models.StateAddAnotherVehicle: "Would you like to add another vehicle?",
	models.StateLicenseType:       "What type of US license do you have? (Foreign, Personal, Commercial)",
	models.StateLicenseStatus:     "What is your license status? (Valid/Suspended)",
	models.StateComplete:          "Thank you! Your information has been collected successfully. You can now start a new session if needed.",
}

// Fallback returns the canned reply for a state, used whenever the
// generator is unavailable or returns nothing usable.
func Fallback(state models.State) string {
	if reply, ok := fallbackReplies[state]; ok {
		return reply
	}
	return "I'm sorry, could you repeat that?"
}
