package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"

	"github.com/lowball-labs/go-lowball-agent/internal/bridge"
	"github.com/lowball-labs/go-lowball-agent/internal/browser"
	"github.com/lowball-labs/go-lowball-agent/internal/chat"
	"github.com/lowball-labs/go-lowball-agent/internal/config"
	"github.com/lowball-labs/go-lowball-agent/internal/controller"
	"github.com/lowball-labs/go-lowball-agent/internal/llm"
	"github.com/lowball-labs/go-lowball-agent/internal/marketplace"
	"github.com/lowball-labs/go-lowball-agent/internal/negotiation"
	"github.com/lowball-labs/go-lowball-agent/internal/store"
)

const banner = `
 ██╗      ██████╗ ██╗    ██╗██████╗  █████╗ ██╗     ██╗
 ██║     ██╔═══██╗██║    ██║██╔══██╗██╔══██╗██║     ██║
 ██║     ██║   ██║██║ █╗ ██║██████╔╝███████║██║     ██║
 ██║     ██║   ██║██║███╗██║██╔══██╗██╔══██║██║     ██║
 ███████╗╚██████╔╝╚███╔███╔╝██████╔╝██║  ██║███████╗███████╗
 ╚══════╝ ╚═════╝  ╚══╝╚══╝ ╚═════╝ ╚═╝  ╚═╝╚══════╝╚══════╝
          marketplace negotiation agent
`

func main() {
	fmt.Print(banner)

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	driver, err := browser.New(cfg.BrowserBackend, cfg.Headless)
	if err != nil {
		log.Fatalf("failed to start browser (%s): %v", cfg.BrowserBackend, err)
	}
	defer driver.Close()

	st, err := store.Open(cfg.StoreBackend, cfg.StorePath)
	if err != nil {
		log.Fatalf("failed to open store (%s): %v", cfg.StoreBackend, err)
	}
	defer st.Close()

	gen, err := llm.FromConfig(cfg)
	if err != nil {
		log.Fatalf("failed to create LLM client: %v", err)
	}

	strategy, err := negotiation.LoadStrategy(cfg.Strategy, cfg.StrategyFile)
	if err != nil {
		log.Fatalf("failed to load strategy: %v", err)
	}
	engine := negotiation.NewEngine(gen, strategy, llm.ParsePersona(cfg.Persona))

	source := marketplace.NewBrowserSource(driver, cfg.SearchURLTemplate)
	channel := chat.NewBrowserChannel(driver, cfg.PollInterval)
	ctrl := controller.NewController(cfg, driver, source, channel, engine, st)

	// Intent fallback for free-form text; direct commands never need it.
	var parser llm.IntentParser
	if cfg.OpenAIAPIKey != "" {
		parser, err = llm.NewOpenAIIntentParser(cfg.OpenAIAPIKey, cfg.OpenAIModel)
		if err != nil {
			log.Fatalf("failed to create intent parser: %v", err)
		}
	}

	srv := bridge.NewServer(st, nil)
	go func() {
		if err := srv.Start(fmt.Sprintf(":%d", cfg.BridgePort)); err != nil {
			log.Printf("bridge server stopped: %v", err)
		}
	}()
	defer srv.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	fmt.Println(helpText)
	runLoop(ctx, ctrl, parser, srv.Commands())

	fmt.Println("\nBye. Negotiation history is saved.")
}

// runLoop drains stdin and dashboard commands until EOF or interrupt.
func runLoop(ctx context.Context, ctrl *controller.Controller, parser llm.IntentParser, remote <-chan string) {
	lines := make(chan string)
	go func() {
		defer close(lines)
		sc := bufio.NewScanner(os.Stdin)
		fmt.Print("> ")
		for sc.Scan() {
			lines <- sc.Text()
		}
	}()

	for {
		var line string
		var open bool
		select {
		case <-ctx.Done():
			return
		case line, open = <-lines:
			if !open {
				return
			}
		case line = <-remote:
			fmt.Printf("\nBRIDGE: received %q\n", line)
		}

		if !handleLine(ctx, ctrl, parser, line) {
			return
		}
		fmt.Print("> ")
	}
}

// handleLine executes one command; false means quit.
func handleLine(ctx context.Context, ctrl *controller.Controller, parser llm.IntentParser, line string) bool {
	line = strings.TrimSpace(line)
	switch strings.ToLower(line) {
	case "":
		return true
	case "quit", "exit":
		return false
	case "help":
		fmt.Println(helpText)
		return true
	}

	in, ok := parseCommand(line)
	if !ok {
		if parser == nil {
			fmt.Println("Unknown command. Type 'help', or set OPENAI_API_KEY for free-form input.")
			return true
		}
		var err error
		in, err = parser.ParseIntent(ctx, line)
		if err != nil {
			fmt.Printf("✗ Could not interpret that: %v\n", err)
			return true
		}
	}

	out, err := ctrl.Dispatch(ctx, in)
	switch {
	case errors.Is(err, context.Canceled):
		fmt.Println("Interrupted; active negotiations stay resumable.")
	case err != nil:
		fmt.Printf("✗ %v\n", err)
	case out != "":
		fmt.Println(out)
	}
	return true
}
