package orchestrators

import "fmt"

func mention(user string) string {
	if user == "" {
		return ""
	}
	return fmt.Sprintf("<@%s> ", user)
}

// CaseNotFoundMessage tells the user to refine the query
func CaseNotFoundMessage(user, query string) string {
	if user == "" {
		return fmt.Sprintf("Sorry, I couldn't find any relevant test case for '%s'.", query)
	}
	return fmt.Sprintf("Sorry <@%s>, I couldn't find any relevant test case for '%s'.", user, query)
}

// ScriptNotFoundMessage reports a matched case that has no runnable script
func ScriptNotFoundMessage(user, title string) string {
	return fmt.Sprintf("%sI found the test case '%s' but couldn't find a script for it (%s).", mention(user), title, noScriptHint)
}

const noScriptHint = "add its script_path to the catalog"

// DispatchStartedMessage confirms a triggered workflow
func DispatchStartedMessage(user, scriptPath string) string {
	return fmt.Sprintf("%sTest execution started for `%s`! 🚀\n(Triggered GitHub Workflow)", mention(user), scriptPath)
}

// DispatchFailedMessage reports an infrastructure problem, not a lookup miss
func DispatchFailedMessage(user string) string {
	return fmt.Sprintf("%s⚠️ Failed to start test execution. Please check the logs.", mention(user))
}

// CancelledMessage confirms a cancelled run
func CancelledMessage() string {
	return "Test execution cancelled."
}

// ConfirmationText is the plain text summary of a confirmation
func ConfirmationText(c Confirmation) string {
	return fmt.Sprintf("Found a relevant test case for *'%s'*:\n\n*Title:* %s\n*Description:* %s\n*Script:* `%s`",
		c.Query, c.Record.Title, c.Record.Description, c.Resolution.String())
}
