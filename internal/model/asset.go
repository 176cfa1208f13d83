package model

// Asset is a configured holding: what the portfolio owns and how much weight it should carry.
type Asset struct {
	Ticker   string `yaml:"ticker" json:"ticker"`
	Priority int    `yaml:"priority" json:"priority"`
	Quantity int64  `yaml:"quantity" json:"quantity"`
}

// AssetState is an asset measured against a reference total.
type AssetState struct {
	Ticker       string
	Price        float64
	CurrentValue float64
	TargetValue  float64
	TargetWeight float64 // 0.0 ~ 1.0
	Difference   float64 // TargetValue - CurrentValue, > 0 means underweight
	Priority     int
}
