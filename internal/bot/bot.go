package bot

import (
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/MaulidiahYasmin/yovitwo/internal/identity"
	"github.com/MaulidiahYasmin/yovitwo/internal/model"
	"github.com/MaulidiahYasmin/yovitwo/internal/service"
)

// Bot Telegram 传输层：接收命令、渲染回复
type Bot struct {
	api *tgbotapi.BotAPI
	svc *service.Service
}

// New 创建并登录 bot
func New(token string, svc *service.Service) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to connect telegram: %w", err)
	}
	return &Bot{api: api, svc: svc}, nil
}

// Username 登录账号名
func (b *Bot) Username() string {
	return b.api.Self.UserName
}

// Run 长轮询主循环，更新严格串行处理
func (b *Bot) Run() {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 30

	updates := b.api.GetUpdatesChan(u)
	for update := range updates {
		b.HandleUpdate(update)
	}
}

// HandleUpdate 处理单条更新（长轮询与 webhook 共用）
func (b *Bot) HandleUpdate(update tgbotapi.Update) {
	msg := update.Message
	if msg == nil || msg.From == nil || !msg.IsCommand() {
		return
	}

	sub := service.Submission{
		Text:       msg.CommandArguments(),
		ExternalID: strconv.FormatInt(msg.From.ID, 10),
		ChatID:     msg.Chat.ID,
		At:         msg.Time(),
	}

	switch msg.Command() {
	case "visitplan":
		result, err := b.svc.SubmitPlan(sub)
		b.reply(msg.Chat.ID, renderSubmit(result, err, "✅ Visit plan tersimpan."))
	case "recapvisit":
		result, err := b.svc.SubmitRecap(sub)
		b.reply(msg.Chat.ID, renderSubmit(result, err, "✅ Recap visit tersimpan."))
	case "visitreport":
		b.reply(msg.Chat.ID, b.renderReport(strings.TrimSpace(msg.CommandArguments())))
	case "myid":
		b.reply(msg.Chat.ID, fmt.Sprintf("Telegram ID kamu:\n%d", msg.From.ID))
	}
}

// reply 发送回复，每次提交恰好一条
func (b *Bot) reply(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdown
	if _, err := b.api.Send(msg); err != nil {
		log.Printf("failed to send reply: %v", err)
	}
}

// usageText 无正文时的格式提示
const usageText = "📝 *Format input:*\n\n" +
	"Customer: PT ABC\n" +
	"Agenda: Presentasi Produk\n" +
	"Hasil: -\n\n" +
	"➡️ Pisahkan setiap visit dengan *baris kosong*."

// renderSubmit 渲染一次提交的汇总回复
func renderSubmit(result *model.SubmissionResult, err error, successText string) string {
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUsage):
			return usageText
		case errors.Is(err, identity.ErrUnregistered):
			return "❌ Telegram ID belum terdaftar."
		default:
			log.Printf("submission failed: %v", err)
			return "⚠️ Terjadi kesalahan saat menyimpan data. Coba lagi."
		}
	}

	var sb strings.Builder

	if result.Inserted+result.Updated == 0 {
		sb.WriteString("❌ Tidak ada data valid.")
	} else {
		sb.WriteString(successText)
		sb.WriteString(fmt.Sprintf("\n📝 Baru: %d", result.Inserted))
		if result.Updated > 0 {
			sb.WriteString(fmt.Sprintf(", diperbarui: %d", result.Updated))
		}
	}

	for _, outcome := range result.Outcomes {
		if outcome.Status != model.StatusSkipped {
			continue
		}
		sb.WriteString(fmt.Sprintf("\n⚠️ Data ke-%d dilewati: kolom %s kosong",
			outcome.Index+1, strings.Join(outcome.Missing, ", ")))
	}

	return sb.String()
}

// renderReport 渲染日报查询回复，无参数时取当天
func (b *Bot) renderReport(arg string) string {
	tanggal := arg
	if tanggal == "" {
		tanggal = b.svc.FormatDate(b.svc.Now())
	}

	entries, err := b.svc.DailyReport(tanggal)
	if err != nil {
		log.Printf("daily report failed: %v", err)
		return "⚠️ Gagal membaca data recap."
	}
	if len(entries) == 0 {
		return fmt.Sprintf("Tidak ada data untuk tanggal %s.", tanggal)
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("📋 *Recap visit %s*\n", tanggal))
	for i, e := range entries {
		sb.WriteString(fmt.Sprintf("\n%d. %s — %s\n", i+1, e.Kegiatan, e.Pelanggan))
		sb.WriteString(fmt.Sprintf("   Agenda: %s\n", e.Agenda))
		hasil := e.Hasil
		if hasil == "" {
			hasil = "-"
		}
		sb.WriteString(fmt.Sprintf("   Hasil: %s | Status: %s | SA: %s", hasil, e.Status, e.SA))
		if i < len(entries)-1 {
			sb.WriteString("\n")
		}
	}
	return sb.String()
}
