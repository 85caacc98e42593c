// check-bot verifies that the bot token works and reports the webhook state.
package main

import (
	"fmt"
	"log"
	"os"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	token := os.Getenv("TELEGRAM_BOT_TOKEN")
	if token == "" {
		log.Fatal("❌ TELEGRAM_BOT_TOKEN is not set")
	}

	fmt.Println("🤖 Checking Telegram bot status")
	fmt.Println()

	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		log.Fatalf("❌ Bot unreachable: %v", err)
	}
	fmt.Printf("✅ Bot active: @%s (%s)\n", bot.Self.UserName, bot.Self.FirstName)

	info, err := bot.GetWebhookInfo()
	if err != nil {
		log.Fatalf("❌ Failed to fetch webhook info: %v", err)
	}

	if info.URL != "" {
		fmt.Printf("🔗 Webhook active: %s\n", info.URL)
		if info.HasCustomCertificate {
			fmt.Println("🔐 Custom certificate in use")
		}
		if info.PendingUpdateCount > 0 {
			fmt.Printf("⏳ Pending updates: %d\n", info.PendingUpdateCount)
		}
		if info.LastErrorMessage != "" {
			fmt.Printf("⚠️ Last error: %s\n", info.LastErrorMessage)
		}
	} else {
		fmt.Println("📱 No webhook set (long polling mode)")
	}

	fmt.Println()
	fmt.Println("📊 Admin commands:")
	fmt.Println("   /stats - current statistics for all tracked chats")
}
