package main

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"syscall"
	"time"

	"os/signal"

	"github.com/marketwatch-ai/alert-engine/internal/repo"
	"github.com/marketwatch-ai/alert-engine/internal/schedule"
	"github.com/marketwatch-ai/alert-engine/internal/service/alert"
	"github.com/marketwatch-ai/alert-engine/internal/service/llm"
	"github.com/marketwatch-ai/alert-engine/internal/service/llm/gemini"
	"github.com/marketwatch-ai/alert-engine/internal/service/notification"
	"github.com/marketwatch-ai/alert-engine/internal/service/quote"
	"github.com/marketwatch-ai/alert-engine/internal/service/reminder"
	"github.com/marketwatch-ai/alert-engine/ioc"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

func initViper() {

	// --config=./config/xxx.yaml
	file := pflag.String("config", "./config/config.yaml", "specify config file")
	pflag.Parse()

	viper.SetConfigFile(*file)
	err := viper.ReadInConfig()
	if err != nil {
		panic(fmt.Errorf("fatal error config file: %s \n", err))
	}
}

func main() {
	initViper()

	db := ioc.InitDB()
	if err := repo.InitTables(db); err != nil {
		panic(err)
	}
	alertRepo := repo.NewAlertRepo(db)
	profileRepo := repo.NewProfileRepo(db)
	reminderRepo := repo.NewReminderRepo(db)
	deliveryRepo := repo.NewDeliveryRepo(db)

	engineCfg := ioc.InitEngineConfig()
	quoteSvc := ioc.InitQuoteService()
	units := ioc.InitUnitTable()

	cache := quote.NewCache()
	fetcher := quote.NewFetcher(cache, quoteSvc, engineCfg.CallBudget(),
		quote.WithMaxParallel(engineCfg.MaxParallel))
	evaluator := alert.NewEvaluator(units)

	tg := ioc.InitTelegram()
	senders := ioc.InitChannelSenders(tg)

	var dispatchOpts []notification.Option
	if viper.IsSet("llm.gemini.api_key") {
		llmSvc := gemini.NewService(ioc.InitGeminiCli())
		dispatchOpts = append(dispatchOpts, notification.WithSummarizer(llm.NewAlertSummarizer(llmSvc)))
	} else {
		slog.Warn("no gemini api key set, alert summaries use fallback text")
	}
	dispatcher := notification.NewDispatcher(profileRepo, deliveryRepo, senders, dispatchOpts...)

	coordinator := alert.NewCoordinator(alertRepo, cache, fetcher, evaluator,
		alert.WithDispatcher(dispatcher))
	reminderWorker := reminder.NewWorker(reminderRepo, profileRepo, tg)

	alertRunner := schedule.NewRunner(coordinator, engineCfg.Interval, engineCfg.CycleTimeout)
	reminderRunner := schedule.NewRunner(reminderWorker, engineCfg.ReminderInterval, 0)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	healthSrv := schedule.ServeHealth(engineCfg.HealthAddr, deliveryRepo, alertRunner, reminderRunner)

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		alertRunner.Start(ctx)
	}()
	go func() {
		defer wg.Done()
		reminderRunner.Start(ctx)
	}()

	slog.Info("marketwatch alert engine started",
		"interval", engineCfg.Interval, "health_addr", engineCfg.HealthAddr)
	<-ctx.Done()

	slog.Info("shutdown signal received")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()
	_ = healthSrv.Shutdown(shutdownCtx)

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		slog.Info("alert engine stopped")
	case <-shutdownCtx.Done():
		slog.Warn("forced shutdown after timeout")
	}
}
