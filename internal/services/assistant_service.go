package services

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"twinkle/internal/domain"
	"twinkle/internal/genai"
	"twinkle/internal/repos"
)

// FallbackReply is shown whenever the remote model cannot be reached.
const FallbackReply = "I'm sorry, I'm having a little trouble right now. Please browse our collection or try me again in a moment."

var recMarker = regexp.MustCompile(`\{\{REC:([\w,]+)\}\}`)

// Conversationalist is the remote chat call; satisfied by *genai.Client.
type Conversationalist interface {
	GenerateContent(ctx context.Context, system string, turns []genai.Turn) (string, error)
}

type AssistantService struct {
	AI    Conversationalist
	Prods *repos.ProductRepo
}

func NewAssistantService(ai Conversationalist, prods *repos.ProductRepo) *AssistantService {
	return &AssistantService{AI: ai, Prods: prods}
}

// SystemInstruction serializes the catalog as the model's grounding context,
// one product per line.
func SystemInstruction(products []domain.Product) string {
	var b strings.Builder
	b.WriteString("You are Twinkle AI, the official luxury advisor for Twinkle Egypt.\n")
	b.WriteString("PRODUCT INVENTORY:\n")
	for _, p := range products {
		attrs := "{}"
		if !p.Attributes().IsZero() {
			raw, _ := json.Marshal(p.Attributes())
			attrs = string(raw)
		}
		fmt.Fprintf(&b, "- ID: %s | Name: %s | Cat: %s | Desc: %s | Attributes: %s\n",
			p.ID, p.Title, p.Category, p.Description, attrs)
	}
	b.WriteString("YOUR JOB:\n")
	b.WriteString("- Recommend products based on user queries.\n")
	b.WriteString("- If recommending, use the tag {{REC:id1,id2}} at the end.\n")
	b.WriteString("- Be warm, elegant, and helpful.\n")
	return b.String()
}

type ChatReply struct {
	Text     string           `json:"text"`
	Products []domain.Product `json:"products,omitempty"`
}

// Chat sends the conversation to the model and resolves any recommendation
// marker against the catalog. Remote failure is returned to the caller,
// which maps it to FallbackReply.
func (s *AssistantService) Chat(ctx context.Context, history []genai.Turn, text string) (ChatReply, error) {
	products, err := s.Prods.List()
	if err != nil {
		return ChatReply{}, err
	}

	turns := append(append([]genai.Turn{}, history...), genai.Turn{Role: "user", Text: text})
	raw, err := s.AI.GenerateContent(ctx, SystemInstruction(products), turns)
	if err != nil {
		return ChatReply{}, err
	}

	display, ids := ParseRecommendations(raw)
	return ChatReply{Text: display, Products: s.resolve(products, ids)}, nil
}

// ParseRecommendations extracts the single {{REC:id1,id2,...}} marker from a
// reply, if present. The marker is stripped from the display text; the ids
// keep their order and duplicates.
func ParseRecommendations(raw string) (string, []string) {
	m := recMarker.FindStringSubmatch(raw)
	if m == nil {
		return raw, nil
	}
	display := strings.TrimSpace(strings.Replace(raw, m[0], "", 1))
	return display, strings.Split(m[1], ",")
}

// resolve cross-references ids against the catalog, silently dropping any
// that do not exist.
func (s *AssistantService) resolve(products []domain.Product, ids []string) []domain.Product {
	if len(ids) == 0 {
		return nil
	}
	byID := make(map[string]domain.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}
	var out []domain.Product
	for _, id := range ids {
		if p, ok := byID[id]; ok {
			out = append(out, p)
		}
	}
	return out
}
