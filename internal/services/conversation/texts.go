package conversation

import "github.com/BearBump/ParcelAssist/internal/validate"

const (
	textGreeting = "Hi! I'm the virtual assistant for lost packages. I can help locate your order and share the latest status update."
	textNeeds    = "To get started, I'll need your order ID (AB-123456), the email used for purchase, and your ZIP code."

	textGoodbye = "Goodbye!"
	textThanks  = "Thank you for using the lost package assistant!"

	textYesNoSuffix  = " (yes/no): "
	textYesNoUnclear = "Sorry, I didn't catch that. Please answer yes or no."
	textYesNoMoveOn  = "Let's move on."

	textConfirmHeader = "Thanks! Here's what I have:"
	textConfirmAsk    = "Is this information correct?"

	textLookupUnavailable = "I'm having trouble reaching our order system right now."
	textOfferAgent        = "Would you like me to connect you with a human agent now?"
	textConnecting        = "Connecting you to a human agent... You'll receive an email confirmation shortly."
	textComeBack          = "Okay! You can come back anytime with updated order details."

	textFoundHeader = "Order found! Here's the latest:"

	textAskReceived    = "Was the package received?"
	textReceived       = "Great to hear! I'll note that as confirmed."
	textSorryMissing   = "I'm sorry about that. I can file a missing package report and notify the carrier and our support team."
	textAskFileReport  = "Would you like me to file that now?"
	textReportFiled    = "Report filed. Reference: %s. You'll receive updates via email within 24 hours."
	textReportDeclined = "Understood. If it still doesn't turn up, come back anytime and I can file the report for you."
	textAskUpdates     = "Would you like SMS/email updates as the package moves?"
	textUpdatesEnabled = "Updates enabled. You'll be notified of new scans or status changes."
	textAskTips        = "Need tips to avoid missed delivery (e.g., leave at door, schedule pickup)?"
	textTipsSent       = "I've sent delivery preference options to your email."
)

var escalationTexts = map[EscalationReason]string{
	ReasonInvalidOrderID:       "We're having trouble with the order format. I'll connect you to a human agent.",
	ReasonInvalidEmail:         "We're having trouble verifying the email. I'll connect you to a human agent.",
	ReasonInvalidZip:           "We're having trouble validating the ZIP. I'll connect you with a human agent.",
	ReasonDeclinedConfirmation: "No problem! For your security, I'll transfer you to a human agent to continue.",
}

type field struct {
	prompt string
	hint   string
	valid  func(string) bool
	reason EscalationReason
}

var (
	orderIDField = field{
		prompt: "Order ID: ",
		hint:   "That doesn't look right. Please try again. Example format: AB-123456.",
		valid:  validate.OrderID,
		reason: ReasonInvalidOrderID,
	}
	emailField = field{
		prompt: "Email on the order: ",
		hint:   "That email doesn't look valid. Please try again. Example: name@example.com.",
		valid:  validate.Email,
		reason: ReasonInvalidEmail,
	}
	zipField = field{
		prompt: "Shipping ZIP code: ",
		hint:   "Please enter a 5-digit ZIP (optional +4). Example: 94107 or 94107-1234.",
		valid:  validate.Zip,
		reason: ReasonInvalidZip,
	}
)
