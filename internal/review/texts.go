package review

import "fmt"

const (
	controlsPrompt = "Approve or decline?"
	approveLabel   = "Approve ✅"
	declineLabel   = "Decline ❌"

	msgNotFound = "Request not found."
)

func reviewCaption(name string, userID int64, txid, username, password string) string {
	return fmt.Sprintf("New request from %s (ID: %d):\nTXID: %s\nUsername: %s\nPassword: %s",
		name, userID, txid, username, password)
}

func approvedText(username, password, accessLink string) string {
	return fmt.Sprintf("Thank you for your purchase! 🎉\n\n"+
		"Your ebook credentials:\n"+
		"Username: %s\n"+
		"Password: %s\n\n"+
		"Access your ebooks here: %s\n\n"+
		"You have already read our privacy policy, no refund.",
		username, password, accessLink)
}

func declinedText(supportLink string) string {
	return "Sorry, your request was declined. Contact support: " + supportLink
}

func processingErrorText(supportLink string) string {
	return "Error processing your action. For support: " + supportLink
}

func label(a Action) string {
	if a == ActionApprove {
		return approveLabel
	}
	return declineLabel
}
