package email

import (
	"fmt"
	"net/url"
)

func greetName(name string) string {
	if name == "" {
		return "friend"
	}
	return name
}

// VerificationMessage builds the confirm-your-email mail. The link points
// at GET /subscribe/confirm on the public base URL.
func VerificationMessage(to, name, baseURL, token string) Message {
	link := baseURL + "/subscribe/confirm?token=" + url.QueryEscape(token)
	who := greetName(name)

	return Message{
		To:      to,
		Subject: "Confirm your email for cozmic.ai",
		Text: fmt.Sprintf(
			"Hi %s,\n\nClick to confirm your email: %s\n\nIf you didn't sign up, ignore this message.",
			who, link,
		),
		HTML: fmt.Sprintf(
			`<div style="font-family: system-ui, -apple-system, 'Segoe UI', Roboto, sans-serif; color: #111">
  <h2 style="color: #2E1A47">Confirm your email</h2>
  <p>Hi %s,</p>
  <p>Click the link below to confirm your email for <strong>cozmic.ai</strong>:</p>
  <p><a href="%s">%s</a></p>
  <p style="color: #888; font-size: 13px">— The cozmic.ai Team</p>
</div>`,
			who, link, link,
		),
	}
}

// WelcomeMessage builds the you're-on-the-waitlist mail sent after a
// successful confirmation.
func WelcomeMessage(to, name string) Message {
	who := greetName(name)

	return Message{
		To:      to,
		Subject: "Thanks for joining the cozmic.ai waitlist — welcome!",
		Text: fmt.Sprintf(
			"Hi %s,\n\nThanks for joining the cozmic.ai waitlist. We'll email you when early access opens.\n\n— cozmic.ai Team",
			who,
		),
		HTML: fmt.Sprintf(
			`<div style="font-family: system-ui, -apple-system, 'Segoe UI', Roboto, sans-serif; color: #111">
  <h2 style="color: #2E1A47">Welcome to cozmic.ai</h2>
  <p>Hi %s,</p>
  <p>Thanks for joining the <strong>cozmic.ai</strong> waitlist. We'll email you when early access opens — expect cosmic perks ✨</p>
  <p style="color: #888; font-size: 13px">— The cozmic.ai Team</p>
</div>`,
			who,
		),
	}
}
