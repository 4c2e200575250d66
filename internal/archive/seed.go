package archive

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// Default intent catalog. Each non-"unknown" intent carries an ordered
// script of follow-up questions the assistant works through.
var defaultCatalog = []struct {
	name        string
	description string
	questions   []string
}{
	{
		name:        "booking",
		description: "The user wants to book an appointment",
		questions: []string{
			"What date would you like to book the appointment for?",
			"Do you have a preferred time for the appointment?",
			"Which service or type of appointment would you like to book?",
			"Would you like to choose a specific staff member or provider?",
			"Do you have any special requirements or notes for the booking?",
		},
	},
	{
		name:        "quote",
		description: "The user wants a price estimate",
		questions: []string{
			"Which service would you like a quote for?",
			"Can you describe the scope or size of the work?",
			"When would you need the work completed?",
			"What is the best email address to send the quote to?",
		},
	},
	{
		name:        "accounts",
		description: "The user has a billing or account question",
		questions: []string{
			"Is your question about an invoice, a payment, or your account details?",
			"Do you have an invoice or account reference number?",
			"What is the name or email address the account is registered under?",
		},
	},
	{
		name:        "unknown",
		description: "No catalog intent matched the message",
		questions:   nil,
	},
}

// SeedCatalog inserts the default intents and their question scripts if they
// are not present yet. Existing rows are left untouched so operators can
// edit the catalog in place.
func SeedCatalog(db *gorm.DB) error {
	for _, entry := range defaultCatalog {
		var intent Intent
		err := db.Where("name = ?", entry.name).First(&intent).Error
		if err == nil {
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("failed to look up intent %q: %w", entry.name, err)
		}

		intent = Intent{Name: entry.name, Description: entry.description}
		if err := db.Create(&intent).Error; err != nil {
			return fmt.Errorf("failed to seed intent %q: %w", entry.name, err)
		}

		for i, text := range entry.questions {
			question := Question{
				IntentID:   intent.ID,
				Text:       text,
				OrderIndex: i + 1,
				IsRequired: true,
			}
			if err := db.Create(&question).Error; err != nil {
				return fmt.Errorf("failed to seed question for intent %q: %w", entry.name, err)
			}
		}
	}

	return nil
}
