// Package core defines the pipeline types and collaborator interfaces
// for coursepipe. Each stage of the pipeline is a clean, testable interface.
package core

import (
	"context"
	"time"
)

// Dialect tags how a package's pages were resolved.
type Dialect string

const (
	DialectManifest Dialect = "manifest-xml"
	DialectVendor   Dialect = "vendor-xml"
	DialectGeneric  Dialect = "generic-markup"
)

// Format is the markup flavor of a single page file.
type Format string

const (
	FormatXML  Format = "xml"
	FormatHTML Format = "html"
)

// Canonical activity types. Every extractor output maps into this vocabulary.
const (
	TypeParagraph      = "PARAGRAPH"
	TypeSplash         = "SPLASH"
	TypeSplashImage    = "SPLASH_IMAGE"
	TypeVideo          = "VIDEO"
	TypeChoice         = "CHOICE"
	TypeTrueFalse      = "TRUE_FALSE"
	TypeMultiChoice    = "MULTI_CHOICE"
	TypeConnecting     = "CONNECTING"
	TypeOrdering       = "ORDERING"
	TypeTextEvidence   = "TEXT_EVIDENCE"
	TypeTextSelect     = "TEXT_SELECT"
	TypeIdentification = "IDENTIFICATION"
	TypeMemoryGame     = "MEMORY_GAME"
	TypeKaraoke        = "KARAOKE"
	TypeCompositeQuiz  = "COMPOSITE_QUIZ"
	TypeLearned        = "LEARNED"
	TypeStory          = "STORY"
	TypeUncategorized  = "UNCATEGORIZED"
)

// Properties is the free-form property bag extracted from one dialect-native
// module. Values may carry raw markup.
type Properties map[string]string

// Page is one content unit resolved from a package archive.
type Page struct {
	ID      string  `json:"id"`
	Path    string  `json:"path"`
	Name    string  `json:"name"`
	Dialect Dialect `json:"dialect"`
	Format  Format  `json:"format"`
	Content string  `json:"-"`
}

// Card is one memory-game card (one half of a pair).
type Card struct {
	ID   int    `json:"id"`
	Kind string `json:"type"` // "img" or "txt"
	Val  string `json:"val"`
}

// MemoryConfig is the grid configuration for a memory game.
type MemoryConfig struct {
	Columns     int    `json:"columns"`
	Rows        int    `json:"rows"`
	StyleACover string `json:"style_a_cover"`
	StyleBCover string `json:"style_b_cover"`
}

// Option is one answer option of a choice activity.
type Option struct {
	Label   string `json:"label"`
	Correct bool   `json:"isCorrect"`
}

// Segment is one token of a text-evidence activity.
type Segment struct {
	Kind    string `json:"type"` // "selectable" or "text"
	Content string `json:"content"`
	Correct bool   `json:"isCorrect,omitempty"`
}

// Activity is the canonical, renderer-agnostic representation of one piece
// of page content. A non-UNCATEGORIZED activity always has Type and
// Instruction populated (empty instruction is allowed).
type Activity struct {
	ID           string         `json:"id"`
	Type         string         `json:"type"`
	Instruction  string         `json:"instruction"`
	Data         map[string]any `json:"data,omitempty"`
	Config       *MemoryConfig  `json:"config,omitempty"`
	Cards        []Card         `json:"cards,omitempty"`
	Options      []Option       `json:"options,omitempty"`
	Question     string         `json:"question,omitempty"`
	Text         string         `json:"text,omitempty"`
	ImagePath    string         `json:"imagePath,omitempty"`
	BasePath     string         `json:"basePath,omitempty"`
	ImageURL     string         `json:"imageUrl,omitempty"`
	Properties   Properties     `json:"properties,omitempty"`
	OriginalType string         `json:"originalType"`
	IsGuessed    bool           `json:"isGuessed,omitempty"`
	IsEmbed      bool           `json:"isIframe,omitempty"`
	Selected     bool           `json:"selected"`
	Direction    string         `json:"direction,omitempty"`
	Template     string         `json:"template,omitempty"`
}

// Unclassified is a module no extractor or signature match could interpret.
// It is raw material for the teaching workflow.
type Unclassified struct {
	ID         string     `json:"id"`
	AddonID    string     `json:"addonId"`
	Properties Properties `json:"properties"`
}

// ConvertedPage is the full conversion result for one page.
type ConvertedPage struct {
	Version      string         `json:"version"`
	Timestamp    string         `json:"timestamp"` // ISO8601
	Page         string         `json:"page"`
	Activities   []Activity     `json:"activities"`
	Unclassified []Unclassified `json:"uncategorized_modules"`
	// Template carries a page-level learned rendering. When set it
	// supersedes per-activity rendering for the whole page.
	Template string `json:"template,omitempty"`
}

// AudioCues are feedback sounds collected from orphan modules.
type AudioCues struct {
	Correct string `json:"correct,omitempty"`
	Wrong   string `json:"wrong,omitempty"`
	Victory string `json:"victory,omitempty"`
}

// ExchangeDocument is the flattened, single-activity-biased representation
// used for teaching previews and external consumption. Derived, never
// persisted independently.
type ExchangeDocument struct {
	Version      string         `json:"version"`
	Page         string         `json:"page"`
	ActivityType string         `json:"activity_type"`
	Instruction  string         `json:"instruction"`
	Config       *MemoryConfig  `json:"config,omitempty"`
	Cards        []Card         `json:"cards"`
	Audio        AudioCues      `json:"audio"`
	Direction    string         `json:"direction,omitempty"`
	Data         map[string]any `json:"data,omitempty"`
	Text         string         `json:"text,omitempty"`
	Options      []Option       `json:"options,omitempty"`
	Question     string         `json:"question,omitempty"`
	Unclassified []Unclassified `json:"uncategorized_modules,omitempty"`
}

// BlockStyle is the default presentation record attached to renderer blocks.
type BlockStyle struct {
	Columns      int    `json:"columns"`
	Margin       int    `json:"margin"`
	Background   string `json:"background"`
	BorderRadius string `json:"borderRadius"`
	Padding      int    `json:"padding"`
}

// Block is one renderer-facing record handed to the visual block renderer
// (out of core scope).
type Block struct {
	ID          string     `json:"id"`
	Type        string     `json:"type"`
	Title       string     `json:"title,omitempty"`
	Content     string     `json:"content,omitempty"`
	Image       string     `json:"image,omitempty"`
	URL         string     `json:"url,omitempty"`
	Instruction string     `json:"instruction,omitempty"`
	Options     []Option   `json:"options,omitempty"`
	Style       BlockStyle `json:"style"`
}

// Slide groups the blocks produced from one page.
type Slide struct {
	ID     string  `json:"id"`
	Title  string  `json:"title"`
	Blocks []Block `json:"blocks"`
}

// Rule is a persisted signature→template mapping created via an explicit
// teach action. Read-only to the extraction pipeline.
type Rule struct {
	Signature string    `json:"signature"`
	AddonID   string    `json:"addon_id,omitempty"`
	Template  string    `json:"html_template"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Archive exposes the entries of a loaded content package.
// Entries are immutable once the archive is opened.
type Archive interface {
	// Paths lists every entry path in the archive.
	Paths() []string
	ReadText(ctx context.Context, path string) (string, error)
	ReadBinary(ctx context.Context, path string) ([]byte, error)
}

// RuleStore is the signature→template persistence service.
// Get returns (nil, nil) when no rule matches. Upsert must guarantee
// per-signature uniqueness (last write wins).
type RuleStore interface {
	Get(ctx context.Context, signature, addonID string) (*Rule, error)
	Upsert(ctx context.Context, signature, addonID, template string) (*Rule, error)
}

// AssetUploader turns a binary blob into a durable URL.
type AssetUploader interface {
	Upload(ctx context.Context, data []byte, filename string) (string, error)
}

// Renderer converts a converted page into a final output format.
type Renderer interface {
	Render(page *ConvertedPage, doc *ExchangeDocument) ([]byte, error)
	// Extension returns the file extension for this renderer (e.g. ".md", ".pdf").
	Extension() string
}
