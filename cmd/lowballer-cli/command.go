package main

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/lowball-labs/go-lowball-agent/internal/llm"
)

var (
	findRe    = regexp.MustCompile(`(?i)^(?:find|search)\s+(.+?)(?:\s+under\s+\$?(\d+(?:\.\d+)?))?$`)
	indexedRe = regexp.MustCompile(`(?i)^(open|chat|lowball|negotiate)\s+(\d+)$`)
)

// parseCommand recognises the direct command grammar. Free-form text
// falls through to the LLM intent parser instead.
func parseCommand(line string) (llm.Intent, bool) {
	line = strings.TrimSpace(line)

	switch strings.ToLower(line) {
	case "listings", "ls":
		return llm.Intent{Kind: llm.IntentListings}, true
	case "history":
		return llm.Intent{Kind: llm.IntentHistory}, true
	case "screenshot":
		return llm.Intent{Kind: llm.IntentScreenshot}, true
	}

	if m := findRe.FindStringSubmatch(line); m != nil {
		in := llm.Intent{Kind: llm.IntentSearch, Query: strings.TrimSpace(m[1])}
		if m[2] != "" {
			if p, err := decimal.NewFromString(m[2]); err == nil {
				in.MaxPrice = p
			}
		}
		return in, true
	}

	if m := indexedRe.FindStringSubmatch(line); m != nil {
		idx, err := strconv.Atoi(m[2])
		if err != nil {
			return llm.Intent{}, false
		}
		in := llm.Intent{Index: idx}
		switch strings.ToLower(m[1]) {
		case "open":
			in.Kind = llm.IntentOpen
		case "chat":
			in.Kind = llm.IntentChat
		default:
			in.Kind = llm.IntentLowball
		}
		return in, true
	}

	return llm.Intent{}, false
}

const helpText = `Commands:
  find <query> [under $N]   search the marketplace
  listings                  show extracted listings
  open <n>                  open listing n in the browser
  chat <n>                  open chat with the seller of listing n
  lowball <n>               start automatic negotiation on listing n
  history                   show stored negotiations
  screenshot                capture the current page
  help                      this text
  quit                      exit

Anything else is interpreted by the LLM.`
