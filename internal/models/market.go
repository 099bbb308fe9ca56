package models

// Market data DTOs returned by the upstream agent service. All fields are
// optional on the wire; Normalize applies placeholder defaults once at the
// parse boundary so handlers and views never re-derive fallbacks.

// KPI is a single dashboard key performance indicator card
type KPI struct {
	ID     string  `json:"id,omitempty"`
	Name   string  `json:"name"`
	Value  float64 `json:"value"`
	Unit   string  `json:"unit,omitempty"`
	Change float64 `json:"change,omitempty"` // Percent change since previous period
	Trend  string  `json:"trend,omitempty"`  // "up", "down" or "flat"
	Period string  `json:"period,omitempty"`
}

// Normalize applies display defaults for omitted fields
func (k *KPI) Normalize() {
	if k.Name == "" {
		k.Name = "Unknown"
	}
	if k.Trend == "" {
		k.Trend = "flat"
	}
	if k.Period == "" {
		k.Period = "30d"
	}
}

// Competitor is one entry of the competitor list
type Competitor struct {
	Name        string   `json:"name"`
	Domain      string   `json:"domain,omitempty"`
	MarketShare float64  `json:"market_share,omitempty"`
	Sentiment   float64  `json:"sentiment,omitempty"`
	Mentions    int      `json:"mentions,omitempty"`
	Highlights  []string `json:"highlights,omitempty"`
}

func (c *Competitor) Normalize() {
	if c.Name == "" {
		c.Name = "Unknown"
	}
	if c.Highlights == nil {
		c.Highlights = []string{}
	}
}

// Trend is a scored market trend card
type Trend struct {
	Topic      string   `json:"topic"`
	Score      float64  `json:"score,omitempty"`
	Direction  string   `json:"direction,omitempty"`
	Summary    string   `json:"summary,omitempty"`
	SourceURLs []string `json:"source_urls,omitempty"`
}

func (t *Trend) Normalize() {
	if t.Topic == "" {
		t.Topic = "Unknown"
	}
	if t.Direction == "" {
		t.Direction = "flat"
	}
	if t.SourceURLs == nil {
		t.SourceURLs = []string{}
	}
}

// CustomerInsight is an AI-generated customer insight card
type CustomerInsight struct {
	Title      string  `json:"title"`
	Segment    string  `json:"segment,omitempty"`
	Confidence float64 `json:"confidence,omitempty"`
	Summary    string  `json:"summary,omitempty"`
}

func (i *CustomerInsight) Normalize() {
	if i.Title == "" {
		i.Title = "Unknown"
	}
	if i.Segment == "" {
		i.Segment = "general"
	}
}

// AnalysisRequest is the payload for POST /api/analysis
type AnalysisRequest struct {
	Query   string                 `json:"query"`
	Sources []string               `json:"sources,omitempty"`
	Filters map[string]interface{} `json:"filters,omitempty"`
}

// ChatRequest is the payload for POST /api/chat
type ChatRequest struct {
	Message string        `json:"message"`
	History []ChatMessage `json:"history,omitempty"`
}

// ChatMessage is one turn of chat history
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// UpstreamHealth is the upstream GET /health response
type UpstreamHealth struct {
	Status    string            `json:"status"`
	Timestamp string            `json:"timestamp,omitempty"`
	Services  map[string]string `json:"services,omitempty"`
}
