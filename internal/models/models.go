package models

// ContactSubmission is one contact-form request. It is never stored.
type ContactSubmission struct {
	Name    string
	Email   string
	Message string
}

// Email is a fully formed outbound message.
type Email struct {
	From     string `json:"from"`
	FromName string `json:"from_name"`
	To       string `json:"to"`
	ReplyTo  string `json:"reply_to"`
	Subject  string `json:"subject"`
	Text     string `json:"text"`
	HTML     string `json:"html"`
}

// Message is the broker payload consumed by mail_sender.
type Message struct {
	Email Email `json:"email"`
}
