package services

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"

	"twinkle/internal/domain"
	"twinkle/internal/genai"
	"twinkle/internal/repos"
)

type ImportStatus string

const (
	ImportPending    ImportStatus = "pending"
	ImportProcessing ImportStatus = "processing"
	ImportMatched    ImportStatus = "matched"
	ImportError      ImportStatus = "error"
)

type ImportItem struct {
	ID         string       `json:"id"`
	Filename   string       `json:"filename"`
	Status     ImportStatus `json:"status"`
	ProductID  string       `json:"productId,omitempty"`
	Confidence float64      `json:"confidence,omitempty"`
	Reasoning  string       `json:"reasoning,omitempty"`
	Error      string       `json:"error,omitempty"`

	data []byte
	mime string
}

// ImageMatcher is the remote vision call; satisfied by *genai.Client.
type ImageMatcher interface {
	MatchImage(ctx context.Context, image []byte, mimeType, prompt string) (genai.Match, error)
}

// ImportService runs the Smart Import queue: uploaded images are matched to
// catalog products strictly one at a time, in submission order, to stay
// under the remote API's rate limit. Failed items stay in "error"; there is
// no retry.
type ImportService struct {
	mu    sync.Mutex
	queue []*ImportItem

	AI    ImageMatcher
	Prods *repos.ProductRepo
	Media *repos.MediaRepo
	Audit *repos.AuditRepo
}

func NewImportService(ai ImageMatcher, prods *repos.ProductRepo, media *repos.MediaRepo, audit *repos.AuditRepo) *ImportService {
	return &ImportService{AI: ai, Prods: prods, Media: media, Audit: audit}
}

// Enqueue appends an uploaded file to the batch as pending.
func (s *ImportService) Enqueue(filename, mimeType string, data []byte) *ImportItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	it := &ImportItem{
		ID:       uuid.NewString(),
		Filename: filename,
		Status:   ImportPending,
		data:     data,
		mime:     mimeType,
	}
	s.queue = append(s.queue, it)
	return it
}

// Queue returns a snapshot of the batch in submission order.
func (s *ImportService) Queue() []ImportItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]ImportItem, len(s.queue))
	for i, it := range s.queue {
		out[i] = *it
	}
	return out
}

// Reset drops the current batch.
func (s *ImportService) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.queue = nil
}

func matchPrompt(products []domain.Product) string {
	var b strings.Builder
	b.WriteString("Look at this product image carefully.\n")
	b.WriteString("I have a list of products. Your goal is to identify which product this image belongs to.\n")
	b.WriteString("CATALOG:\n")
	for _, p := range products {
		a := p.Attributes()
		detail := a.Notes
		if detail == "" {
			detail = p.Description
		}
		color := a.Color
		if color == "" {
			color = "N/A"
		}
		fmt.Fprintf(&b, "ID: %s, Title: %s, Type: %s, Color/Material: %s, Notes: %s\n",
			p.ID, p.Title, p.Category, color, detail)
	}
	b.WriteString("RULES:\n")
	b.WriteString("1. Analyze the image visually (Color, Shape, Material, Context).\n")
	b.WriteString("2. Match it to the single most likely product from the CATALOG.\n")
	b.WriteString("3. Return ONLY a JSON object. Do not add markdown blocks.\n")
	b.WriteString(`JSON SCHEMA: {"productId": "string", "confidence": number, "reasoning": "short explanation"}` + "\n")
	return b.String()
}

// Run processes every non-matched item sequentially. A failing item is
// marked "error" and the loop moves on; a matched item replaces the
// product's image list and appends the path to the media library.
func (s *ImportService) Run(ctx context.Context, by *domain.User) error {
	products, err := s.Prods.List()
	if err != nil {
		return err
	}
	prompt := matchPrompt(products)

	known := make(map[string]bool, len(products))
	for _, p := range products {
		known[p.ID] = true
	}

	s.mu.Lock()
	batch := append([]*ImportItem{}, s.queue...)
	s.mu.Unlock()

	for _, it := range batch {
		if it.Status == ImportMatched {
			continue
		}
		s.setStatus(it, ImportProcessing, "")

		m, err := s.AI.MatchImage(ctx, it.data, it.mime, prompt)
		if err != nil {
			s.setStatus(it, ImportError, err.Error())
			continue
		}
		if m.ProductID == "" || !known[m.ProductID] {
			s.setStatus(it, ImportError, "no catalog match: "+m.Reasoning)
			continue
		}

		path := "products/imports/" + it.Filename
		if err := s.Prods.ReplaceImages(m.ProductID, []string{path}); err != nil {
			s.setStatus(it, ImportError, err.Error())
			continue
		}
		if err := s.Media.Add(path); err != nil {
			s.setStatus(it, ImportError, err.Error())
			continue
		}
		_ = s.Audit.Append(by.ID, by.Name, "Added image ref: "+path)

		s.mu.Lock()
		it.Status = ImportMatched
		it.ProductID = m.ProductID
		it.Confidence = m.Confidence
		it.Reasoning = m.Reasoning
		it.Error = ""
		s.mu.Unlock()
	}
	return nil
}

func (s *ImportService) setStatus(it *ImportItem, st ImportStatus, errMsg string) {
	s.mu.Lock()
	it.Status = st
	it.Error = errMsg
	s.mu.Unlock()
}
