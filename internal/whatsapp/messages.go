package whatsapp

import (
	"fmt"
	"time"
)

// Canned message compositions. Button ids here are the contract the inbound
// webhook processor dispatches on.

const (
	ButtonViewCollection = "view_collection"
	ButtonRemindLater    = "remind_later"
	ButtonCheckout       = "checkout"

	RemindButtonPrefix = "remind_"
)

const freeShippingFooter = "Free shipping on orders above ₹999"

// ProductMessage is the standard collection teaser used by campaign sends
// and reminder sends alike.
func ProductMessage(name, category, productURL string) ButtonsContent {
	body := fmt.Sprintf(
		"Hi %s! 👋\n\nWe have some beautiful %s collections just for you! ✨\n\nTap below to explore our latest designs.",
		name, category,
	)
	return ButtonsContent{
		Body:   body,
		Header: category + " Collection",
		Footer: freeShippingFooter,
		Buttons: []Button{
			{ID: ButtonViewCollection, Title: "👗 View Collection"},
			{ID: ButtonRemindLater, Title: "⏰ Remind Me Later"},
		},
	}
}

// CampaignMessage is ProductMessage with a campaign-specific body.
func CampaignMessage(body, category string) ButtonsContent {
	return ButtonsContent{
		Body:   body,
		Header: category + " Collection",
		Footer: freeShippingFooter,
		Buttons: []Button{
			{ID: ButtonViewCollection, Title: "👗 View Collection"},
			{ID: ButtonRemindLater, Title: "⏰ Remind Me Later"},
		},
	}
}

// ReminderOptions offers the fixed 7/15/21 day choices.
func ReminderOptions(name string) ButtonsContent {
	return ButtonsContent{
		Body:   fmt.Sprintf("Hi %s! When would you like us to remind you?", name),
		Header: "Set Reminder",
		Footer: "Choose your preferred reminder time",
		Buttons: []Button{
			{ID: RemindButtonPrefix + "7", Title: "📅 7 Days"},
			{ID: RemindButtonPrefix + "15", Title: "📅 15 Days"},
			{ID: RemindButtonPrefix + "21", Title: "📅 21 Days"},
		},
	}
}

func ReminderConfirmation(name string, days int, reminderDate time.Time) TextContent {
	return TextContent{
		Body: fmt.Sprintf(
			"Perfect, %s! ✅\n\nWe'll remind you in %d days (on %s).\n\nLooking forward to helping you find the perfect outfit! 🛍️",
			name, days, reminderDate.Format("02 Jan 2006"),
		),
	}
}

// CollectionLink carries the actual product URL plus checkout / remind-later
// follow-ups.
func CollectionLink(category, productURL string) ButtonsContent {
	body := fmt.Sprintf(
		"Here's our %s collection! 🛍️\n\n%s\n\nFound something you love? Proceed to checkout below!",
		category, productURL,
	)
	return ButtonsContent{
		Body:   body,
		Header: "View Collection",
		Footer: freeShippingFooter,
		Buttons: []Button{
			{ID: ButtonCheckout, Title: "🛒 Checkout"},
			{ID: ButtonRemindLater, Title: "⏰ Remind Later"},
		},
	}
}

func CheckoutLink(checkoutURL string) TextContent {
	return TextContent{
		Body: fmt.Sprintf(
			"Great choice! 🎉\n\nComplete your purchase here:\n%s\n\nWe accept all major payment methods.\n\nNeed help? Just reply to this message!",
			checkoutURL,
		),
	}
}
