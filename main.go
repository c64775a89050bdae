package main

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"github.com/aura-uw-poc/server/internal/core"
	"github.com/aura-uw-poc/server/internal/underwriting/controller"
	"github.com/aura-uw-poc/server/internal/underwriting/conversations"
	"github.com/aura-uw-poc/server/internal/underwriting/flow"
	"github.com/aura-uw-poc/server/internal/underwriting/model"
	"github.com/aura-uw-poc/server/internal/underwriting/reasoning"
	"github.com/aura-uw-poc/server/internal/underwriting/repo"
	logx "github.com/aura-uw-poc/server/pkg/logger"
	pkgredis "github.com/aura-uw-poc/server/pkg/redis"
)

// AppConfig defines all configurable parameters for the underwriting demo,
// sourced from environment variables (loaded from .env for local runs).
type AppConfig struct {
	// LLM provider
	APIKey  string `envconfig:"GEMINI_API_KEY" required:"true"`
	BaseURL string `envconfig:"GEMINI_BASE_URL"`

	// Core configs
	Model   model.ReasoningModelConfig
	Retry   model.RetryConfig
	Prompt  model.PromptConfig
	Pricing model.PricingConfig
	Session model.SessionConfig
}

func main() {
	ctx := context.Background()
	logx.Init(logx.LoggerOpts{Environment: core.CurrentEnvironment()})

	// Load .env file
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("Warning: Could not load .env file: %v", err)
	}

	// Load structured config from env
	var envCfg AppConfig
	if err := envconfig.Process("", &envCfg); err != nil {
		log.Fatalf("Failed to process environment config: %v", err)
	}

	ttl, err := time.ParseDuration(envCfg.Session.TTL)
	if err != nil {
		log.Fatalf("Invalid SESSION_TTL '%s': %v", envCfg.Session.TTL, err)
	}

	// Session storage: redis when configured, in-process otherwise.
	var sessionRepo model.SessionRepository = repo.NewMemorySessionRepository()
	if os.Getenv("REDIS_URL") != "" {
		var redisCfg pkgredis.Config
		if err := envconfig.Process("redis", &redisCfg); err != nil {
			log.Fatalf("Failed to process redis config: %v", err)
		}
		rdb, err := redisCfg.New()
		if err != nil {
			log.Fatalf("Failed to initialise Redis client: %v", err)
		}
		defer rdb.Close()
		sessionRepo = repo.NewRedisSessionRepository(rdb, ttl)
		fmt.Println("Connected to Redis successfully")
	}

	chat, err := reasoning.NewChatModel(ctx, envCfg.APIKey, envCfg.BaseURL, envCfg.Model)
	if err != nil {
		log.Fatalf("Failed to create chat model: %v", err)
	}
	svc, err := reasoning.NewGeminiService(ctx, chat, reasoning.ClientConfig{
		Model:  envCfg.Model,
		Prompt: envCfg.Prompt,
		Retry:  envCfg.Retry,
	})
	if err != nil {
		log.Fatalf("Failed to create reasoning service: %v", err)
	}

	sessionID := uuid.NewString()
	ctrl := controller.New(sessionID, svc, conversations.NewManager(sessionRepo), envCfg.Pricing)
	machine := flow.NewMachine()

	fmt.Println("AuraLife conversational underwriting demo")
	fmt.Println("Commands: /start /select /proceed /pay /profile /reset /quit")
	printStage(machine)

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			return
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		switch line {
		case "/quit":
			return
		case "/start":
			applyEvent(machine, flow.EventStart)
			continue
		case "/select":
			if _, ok := applyEvent(machine, flow.EventSelectMedical); ok {
				printTurn(ctrl.Transcript()[0])
			}
			continue
		case "/proceed":
			applyEvent(machine, flow.EventProceedToPayment)
			continue
		case "/pay":
			if machine.Stage() != flow.StagePayment {
				fmt.Println("not at the payment stage")
				continue
			}
			number, err := ctrl.ConfirmPayment(ctx)
			if err != nil {
				fmt.Printf("payment failed: %v\n", err)
				continue
			}
			applyEvent(machine, flow.EventConfirmPayment)
			fmt.Printf("Policy issued. Ref: %s\n", number)
			continue
		case "/profile":
			p, err := ctrl.Profile(ctx)
			if err != nil {
				fmt.Printf("profile unavailable: %v\n", err)
				continue
			}
			fmt.Println(p.Summary())
			continue
		case "/reset":
			if err := ctrl.Reset(ctx); err != nil {
				fmt.Printf("reset failed: %v\n", err)
				continue
			}
			machine.Apply(flow.EventReset)
			printStage(machine)
			continue
		}

		if machine.Stage() != flow.StageIntake {
			fmt.Println("start the application first (/start then /select)")
			continue
		}

		turn, err := ctrl.Submit(ctx, line)
		if err != nil {
			fmt.Printf("rejected: %v\n", err)
			continue
		}
		printTurn(*turn)
	}
}

func applyEvent(machine *flow.Machine, event flow.Event) (flow.Stage, bool) {
	stage, changed := machine.Apply(event)
	if !changed {
		fmt.Printf("stage unchanged (%s)\n", stage)
		return stage, false
	}
	printStage(machine)
	return stage, true
}

func printStage(machine *flow.Machine) {
	fmt.Printf("-- stage: %s --\n", machine.Stage())
}

func printTurn(turn model.Turn) {
	for _, a := range turn.AgentActions {
		decision := a.Decision
		if decision == "" {
			decision = "-"
		}
		fmt.Printf("  [%s] %-45s %s | %s\n", a.Status, a.AgentName, decision, a.Reasoning)
	}
	fmt.Printf("aura: %s\n", turn.Text)
	if len(turn.Options) > 0 {
		fmt.Printf("  options: %s\n", strings.Join(turn.Options, " | "))
	}
	if turn.IsQuote {
		fmt.Printf("  quote ready (local check: $%.2f, mismatch=%v), /proceed to continue\n", turn.LocalPremium, turn.PremiumMismatch)
	}
}
