package responder

import "github.com/AdityaMalani1302/cms/internal/nlp"

// Reply is the bot's answer plus suggested follow-ups.
type Reply struct {
	Message      string   `json:"message"`
	QuickReplies []string `json:"quickReplies"`
}

var templates = map[string]Reply{
	"track_package": {
		Message:      "Please provide the tracking ID so I can help you track your package.",
		QuickReplies: []string{"Enter tracking ID", "Contact support"},
	},
	"file_complaint": {
		Message:      "I'll help you file a complaint. Please provide:\n\n1. Your tracking number (if applicable)\n2. Brief description of the issue",
		QuickReplies: []string{"Delayed delivery", "Damaged package", "Lost package", "Other issue"},
	},
	"cost_inquiry": {
		Message:      "I'll help you estimate shipping costs. Our pricing:\n\n📦 Standard (3 days): ₹50 base + ₹15/kg\n🚀 Express (1 day): ₹50 base + ₹22.5/kg\n⚡ Same-day: ₹50 base + ₹30/kg\n\nWhat's your package weight?",
		QuickReplies: []string{"Under 1kg", "1-5kg", "5-10kg", "Over 10kg"},
	},
	"location_update": {
		Message:      "To check your package location, I'll need your tracking number. Please provide your tracking ID.",
		QuickReplies: []string{"I have tracking number", "Lost tracking number", "Contact support"},
	},
	"support_contact": {
		Message:      "I can connect you with our support team:\n\n📞 Phone: 1800-XXX-XXXX (9 AM - 9 PM)\n📧 Email: support@cms.com\n💬 Live Chat: Available (9 AM - 6 PM)",
		QuickReplies: []string{"Call now", "Send email", "Live chat"},
	},
	"greeting": {
		Message:      "Hello! 👋 I'm your CMS assistant. I can help you with:\n\n📦 Track packages\n📝 File complaints\n💰 Get shipping costs\n📍 Location updates\n📞 Contact support\n\nHow can I assist you today?",
		QuickReplies: []string{"Track package", "File complaint", "Get pricing", "Contact support"},
	},
	"goodbye": {
		Message:      "Thank you for using CMS! 😊 Have a great day! Feel free to chat with me anytime you need assistance.",
		QuickReplies: []string{"Track another package", "New inquiry"},
	},
	nlp.IntentUnknown: {
		Message:      "I'm not sure I understood that. Here are some things I can help with:\n\n• Type a tracking number to track your package\n• Say 'file complaint' to report an issue\n• Ask 'shipping cost' for pricing information\n• Type 'support' to contact our team",
		QuickReplies: []string{"Track package", "File complaint", "Get pricing", "Contact support"},
	},
}

const (
	trackFoundFormat    = "Your package %s is currently %s at %s. Expected delivery: %s."
	trackNotFoundFormat = "❌ Sorry, I couldn't find any package with tracking ID %s. Please double-check the number and try again."
)

var (
	trackFoundReplies    = []string{"Get more details", "Change delivery"}
	trackNotFoundReplies = []string{"Try again", "Contact support"}
)
