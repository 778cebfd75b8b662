package model

// All lists every table AutoMigrate owns, in dependency order.
func All() []interface{} {
	return []interface{}{
		&User{},
		&UserProfile{},
		&Chat{},
		&ChatMessage{},
		&Collaboration{},
		&GuestChatTracker{},
		&GuestIPTracker{},
		&TextToSpeech{},
		&UserPayment{},
	}
}
