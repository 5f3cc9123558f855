package intake

// Prompt identifies a user-facing message of the form.
type Prompt int

const (
	PromptGreeting Prompt = iota
	PromptInvalidScreenshot
	PromptScreenshotReceived
	PromptSessionExpired
	PromptInvalidTxID
	PromptTxIDNoted
	PromptInvalidUsername
	PromptUsernameNoted
	PromptInvalidPassword
	PromptSentForReview
	PromptCancelled
	PromptFailure
)

const greeting = "Welcome to Tking Ebook Access Bot!\n" +
	"To get access:\n" +
	"1. Share a screenshot of your payment.\n" +
	"2. Send your TXID (Transaction ID).\n" +
	"3. Provide your desired username.\n" +
	"4. Provide your desired password."

// Render returns the text for p. Error prompts end with the support link.
func Render(p Prompt, supportLink string) string {
	support := " For support: " + supportLink
	switch p {
	case PromptGreeting:
		return greeting
	case PromptInvalidScreenshot:
		return "Please send a valid screenshot."
	case PromptScreenshotReceived:
		return "Screenshot received! Now, send your TXID (Transaction ID)."
	case PromptSessionExpired:
		return "Session expired. Please start over with /start." + support
	case PromptInvalidTxID:
		return "Error: Please resubmit the correct TX ID." + support
	case PromptTxIDNoted:
		return "TXID noted! Now, send your desired username."
	case PromptInvalidUsername:
		return "Error: Please provide a valid username." + support
	case PromptUsernameNoted:
		return "Username noted! Now, send your desired password."
	case PromptInvalidPassword:
		return "Error: Please provide a valid password." + support
	case PromptSentForReview:
		return "Your request has been sent for review. I'll let you know soon!"
	case PromptCancelled:
		return "Cancelled. Use /start to begin again."
	default:
		return "Error occurred. Please start again with /start." + support
	}
}
