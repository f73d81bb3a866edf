// cmd/bot/main.go
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"golang.org/x/text/encoding/charmap"

	"bill-tracker/internal/billing"
	"bill-tracker/internal/config"
	"bill-tracker/internal/domain"
	"bill-tracker/internal/storage/postgres"
)

func SanitizeInput(s string) string {
	// Замени все пробельные символы на обычный пробел
	result := ""
	for _, r := range s {
		if unicode.IsSpace(r) {
			result += " "
		} else {
			result += string(r)
		}
	}
	// Убери лишние пробелы
	return strings.Join(strings.Fields(result), " ")
}

func main() {
	_ = godotenv.Load()

	botToken := os.Getenv("TELEGRAM_BOT_TOKEN")
	if botToken == "" {
		log.Fatal("TELEGRAM_BOT_TOKEN not set")
	}

	cfg := config.MustLoad()
	db, err := pgxpool.New(context.Background(), cfg.DBConn)
	if err != nil {
		log.Fatal("Failed to connect to DB:", err)
	}
	defer db.Close()

	store := postgres.NewStorage(db)

	bot, err := tgbotapi.NewBotAPI(botToken)
	if err != nil {
		log.Panic(err)
	}

	log.Printf("Bot started: @%s", bot.Self.UserName)

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := bot.GetUpdatesChan(u)

	for update := range updates {
		if update.Message == nil {
			continue
		}

		chatID := update.Message.Chat.ID
		userID := int64(update.Message.From.ID)
		text := SanitizeInput(fixEncoding(update.Message.Text))

		var msgText string
		var err error

		switch {
		case text == "/start" || text == "/help":
			msgText = "💳 *Трекер счетов*\n\n" +
				"Команды:\n" +
				"`/bills` — все неоплаченные счета\n" +
				"`/due` — счета на сегодня\n" +
				"`/overdue` — просроченные\n" +
				"`/urgent` — требующие внимания\n" +
				"`/snooze <id> <дни>` — отложить на 1-29 дней\n" +
				"`/paid <id>` — отметить оплаченным"

		case text == "/bills":
			msgText, err = handleBills(store, userID)

		case text == "/due":
			msgText, err = handleDueToday(store, userID)

		case text == "/overdue":
			msgText, err = handleOverdue(store, userID)

		case text == "/urgent":
			msgText, err = handleUrgent(store, userID)

		case strings.HasPrefix(text, "/snooze "):
			parts := strings.Split(text, " ")
			if len(parts) < 3 {
				msgText = "❌ Используй: /snooze <id> <дни>"
			} else {
				days, convErr := strconv.Atoi(parts[2])
				if convErr != nil {
					msgText = "❌ Дни должны быть числом"
				} else {
					msgText, err = handleSnooze(store, userID, parts[1], days)
				}
			}

		case strings.HasPrefix(text, "/paid "):
			parts := strings.Split(text, " ")
			if len(parts) < 2 {
				msgText = "❌ Используй: /paid <id>"
			} else {
				err = handlePaid(store, userID, parts[1])
				if err == nil {
					msgText = "✅ Счёт оплачен"
				}
			}

		default:
			msgText = "Неизвестная команда. Напиши /help"
		}

		if err != nil {
			msgText = "❌ Ошибка: " + err.Error()
		}

		msg := tgbotapi.NewMessage(chatID, msgText)
		msg.ParseMode = "Markdown"
		bot.Send(msg)
	}
}

func today() time.Time {
	return billing.Midnight(time.Now())
}

// findBill ищет счёт по префиксу UUID — набирать полный id в чате неудобно.
func findBill(store *postgres.Storage, userID int64, idPrefix string) (*domain.Bill, error) {
	bills, err := store.BillsByUser(context.Background(), userID)
	if err != nil {
		return nil, err
	}

	var found *domain.Bill
	for i, b := range bills {
		if strings.HasPrefix(b.ID, idPrefix) {
			if found != nil {
				return nil, fmt.Errorf("id %q неоднозначен, уточни префикс", idPrefix)
			}
			found = &bills[i]
		}
	}
	if found == nil {
		return nil, fmt.Errorf("счёт %q не найден", idPrefix)
	}
	return found, nil
}

func formatBill(b domain.Bill, now time.Time) string {
	icon := map[billing.Status]string{
		billing.StatusPaid:     "✅",
		billing.StatusCritical: "🔥",
		billing.StatusOverdue:  "⚠️",
		billing.StatusSnoozed:  "💤",
		billing.StatusDueToday: "📅",
		billing.StatusDueSoon:  "⏳",
		billing.StatusUpcoming: "📋",
	}[billing.Classify(b, now)]

	line := fmt.Sprintf("%s `%s` %s — %s, до %s",
		icon, b.ID[:8], b.Name, b.Amount.StringFixed(2), b.DueDate.Format("2006-01-02"))
	if past := billing.PastDueDays(b, now); past > 0 {
		line += fmt.Sprintf(" (просрочен на %d дн.)", past)
	}
	return line
}

func formatBillList(title string, bills []domain.Bill, now time.Time) string {
	if len(bills) == 0 {
		return "📭 " + title + ": пусто"
	}
	lines := []string{"*" + title + "*"}
	for _, b := range bills {
		lines = append(lines, formatBill(b, now))
	}
	return strings.Join(lines, "\n")
}

func handleBills(store *postgres.Storage, userID int64) (string, error) {
	bills, err := store.BillsByUser(context.Background(), userID)
	if err != nil {
		return "", err
	}
	var unpaid []domain.Bill
	for _, b := range bills {
		if !b.Paid {
			unpaid = append(unpaid, b)
		}
	}
	return formatBillList("Неоплаченные счета", unpaid, today()), nil
}

func handleDueToday(store *postgres.Storage, userID int64) (string, error) {
	bills, err := store.BillsByUser(context.Background(), userID)
	if err != nil {
		return "", err
	}
	now := today()
	return formatBillList("Счета на сегодня", billing.DueToday(bills, now), now), nil
}

func handleOverdue(store *postgres.Storage, userID int64) (string, error) {
	bills, err := store.BillsByUser(context.Background(), userID)
	if err != nil {
		return "", err
	}
	now := today()
	return formatBillList("Просроченные счета", billing.PastDue(bills, now), now), nil
}

func handleUrgent(store *postgres.Storage, userID int64) (string, error) {
	bills, err := store.BillsByUser(context.Background(), userID)
	if err != nil {
		return "", err
	}
	now := today()
	return formatBillList("Требуют внимания", billing.Urgent(bills, now), now), nil
}

func handleSnooze(store *postgres.Storage, userID int64, idPrefix string, days int) (string, error) {
	bill, err := findBill(store, userID, idPrefix)
	if err != nil {
		return "", err
	}

	snoozed, err := billing.Snooze(*bill, days, today())
	if err != nil {
		return "", err
	}
	if err := store.UpdateBillSchedule(context.Background(), &snoozed); err != nil {
		return "", err
	}
	return fmt.Sprintf("💤 Отложено до %s", snoozed.DueDate.Format("2006-01-02")), nil
}

func handlePaid(store *postgres.Storage, userID int64, idPrefix string) error {
	bill, err := findBill(store, userID, idPrefix)
	if err != nil {
		return err
	}
	return store.SetBillPaid(context.Background(), userID, bill.ID, true)
}

func fixEncoding(s string) string {
	// Проверим, является ли строка валидной UTF-8
	if utf8.ValidString(s) {
		return s
	}

	// Пробуем перекодировать из windows-1251
	decoder := charmap.Windows1251.NewDecoder()
	fixed, err := decoder.String(s)
	if err == nil && utf8.ValidString(fixed) {
		return fixed
	}

	// Если не получилось — заменяем невалидные символы
	return strings.ToValidUTF8(s, "")
}
