package domain

import "encoding/json"

type Category string

const (
	CategoryPerfume   Category = "PERFUME"
	CategoryAccessory Category = "ACCESSORY"
	CategoryBundle    Category = "BUNDLE"
)

// Attributes holds the optional descriptive fields a product may carry.
// Perfumes use size/concentration/notes/gender, accessories material/color.
type Attributes struct {
	Size          string `json:"size,omitempty"`
	Concentration string `json:"concentration,omitempty"`
	Notes         string `json:"notes,omitempty"`
	Gender        string `json:"gender,omitempty"`
	Material      string `json:"material,omitempty"`
	Color         string `json:"color,omitempty"`
}

func (a Attributes) IsZero() bool { return a == Attributes{} }

type Product struct {
	ID          string   `db:"id" json:"id"`
	Title       string   `db:"title" json:"title"`
	Description string   `db:"description" json:"description"`
	Brand       string   `db:"brand" json:"brand,omitempty"`
	Price       int      `db:"price" json:"price"` // whole EGP
	Stock       int      `db:"stock" json:"stock"`
	Category    Category `db:"category" json:"category"`
	ImagesJSON  string   `db:"images_json" json:"-"`
	AttrsJSON   string   `db:"attrs_json" json:"-"`
	IsFeatured  bool     `db:"is_featured" json:"isFeatured"`
	CreatedAt   string   `db:"created_at" json:"-"`
	UpdatedAt   string   `db:"updated_at" json:"-"`
}

func (p Product) Images() []string {
	var out []string
	_ = json.Unmarshal([]byte(p.ImagesJSON), &out)
	return out
}

func (p *Product) SetImages(paths []string) {
	b, _ := json.Marshal(paths)
	p.ImagesJSON = string(b)
}

func (p Product) Attributes() Attributes {
	var a Attributes
	_ = json.Unmarshal([]byte(p.AttrsJSON), &a)
	return a
}

func (p *Product) SetAttributes(a Attributes) {
	if a.IsZero() {
		p.AttrsJSON = ""
		return
	}
	b, _ := json.Marshal(a)
	p.AttrsJSON = string(b)
}

type Availability struct {
	Status string `json:"status"` // IN_STOCK | LOW_STOCK | OUT_OF_STOCK
	Qty    int    `json:"qty,omitempty"`
}

type AuditLog struct {
	ID        string `db:"id" json:"id"`
	UserID    string `db:"user_id" json:"userId"`
	UserName  string `db:"user_name" json:"userName"`
	Action    string `db:"action" json:"action"`
	Timestamp string `db:"created_at" json:"timestamp"`
}
