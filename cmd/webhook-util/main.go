// webhook-util manages the bot's webhook registration.
package main

import (
	"fmt"
	"log"
	"os"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/joho/godotenv"
)

func usage() {
	prog := os.Args[0]
	fmt.Println("Usage:")
	fmt.Printf("  %s info           # Show the current webhook\n", prog)
	fmt.Printf("  %s set <URL>      # Set the webhook\n", prog)
	fmt.Printf("  %s delete         # Delete the webhook\n", prog)
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	token := os.Getenv("TELEGRAM_BOT_TOKEN")
	if token == "" {
		log.Fatal("❌ TELEGRAM_BOT_TOKEN is not set")
	}

	if len(os.Args) < 2 {
		usage()
		return
	}

	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		log.Fatalf("❌ Bot unreachable: %v", err)
	}

	switch os.Args[1] {
	case "info":
		info, err := bot.GetWebhookInfo()
		if err != nil {
			log.Fatalf("❌ Failed to fetch webhook info: %v", err)
		}
		if info.URL == "" {
			fmt.Println("📱 No webhook set")
			return
		}
		fmt.Printf("🔗 Webhook: %s\n", info.URL)
		fmt.Printf("⏳ Pending updates: %d\n", info.PendingUpdateCount)
		if info.LastErrorMessage != "" {
			fmt.Printf("⚠️ Last error: %s\n", info.LastErrorMessage)
		}

	case "set":
		if len(os.Args) < 3 {
			log.Fatal("❌ Provide a webhook URL")
		}
		wh, err := tgbotapi.NewWebhook(os.Args[2])
		if err != nil {
			log.Fatalf("❌ Invalid webhook URL: %v", err)
		}
		wh.AllowedUpdates = []string{"message", "chat_join_request", "chat_member"}
		if _, err := bot.Request(wh); err != nil {
			log.Fatalf("❌ Failed to set webhook: %v", err)
		}
		fmt.Printf("🔗 Webhook set: %s\n", os.Args[2])

	case "delete":
		if _, err := bot.Request(tgbotapi.DeleteWebhookConfig{}); err != nil {
			log.Fatalf("❌ Failed to delete webhook: %v", err)
		}
		fmt.Println("🗑️ Webhook deleted")

	default:
		fmt.Printf("❌ Unknown command: %s\n", os.Args[1])
		usage()
	}
}
