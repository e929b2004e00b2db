package ioc

import (
	"log/slog"

	"github.com/marketwatch-ai/alert-engine/internal/service/notification"
	"github.com/marketwatch-ai/alert-engine/internal/service/notification/email"
	"github.com/marketwatch-ai/alert-engine/internal/service/notification/telegram"
	"github.com/marketwatch-ai/alert-engine/internal/service/notification/whatsapp"
	"github.com/spf13/viper"
)

func InitTelegram() *telegram.Service {
	type Config struct {
		BotToken string `mapstructure:"bot_token"`
	}

	var cfg Config
	if err := viper.UnmarshalKey("telegram", &cfg); err != nil {
		panic(err)
	}
	if cfg.BotToken == "" {
		panic("no telegram bot token set")
	}
	return telegram.NewService(cfg.BotToken)
}

// InitChannelSenders whatsapp 和 email 可不配置, 缺席时只走 telegram
func InitChannelSenders(tg *telegram.Service) map[notification.Channel]notification.ChannelSender {
	senders := map[notification.Channel]notification.ChannelSender{
		notification.ChannelTelegram: tg,
	}

	type WhatsAppConfig struct {
		AccessToken   string `mapstructure:"access_token"`
		PhoneNumberId string `mapstructure:"phone_number_id"`
	}
	var wa WhatsAppConfig
	if err := viper.UnmarshalKey("whatsapp", &wa); err != nil {
		panic(err)
	}
	if wa.AccessToken != "" && wa.PhoneNumberId != "" {
		senders[notification.ChannelWhatsApp] = whatsapp.NewService(wa.AccessToken, wa.PhoneNumberId)
	} else {
		slog.Warn("whatsapp not configured, pro/elite alerts fall back to telegram only")
	}

	type EmailConfig struct {
		Sender   string `mapstructure:"sender"`
		Password string `mapstructure:"password"`
		Host     string `mapstructure:"host"`
		Port     int    `mapstructure:"port"`
	}
	var em EmailConfig
	if err := viper.UnmarshalKey("email", &em); err != nil {
		panic(err)
	}
	if em.Host != "" && em.Sender != "" {
		senders[notification.ChannelEmail] = email.NewService(em.Sender, em.Password, em.Host, em.Port)
	}

	return senders
}
