package models

// InterestProduct is one product entry inside a customer's interest record.
// Revenue comes in as a decimal string from the client and is kept that way;
// numeric parsing happens at consolidation time.
type InterestProduct struct {
	Product string `json:"product"`
	Revenue string `json:"revenue"`
}

// InterestPreferences are independent signals captured during a store visit.
// They are not mutually exclusive.
type InterestPreferences struct {
	DesignSelected bool   `json:"designSelected"`
	WantsDiscount  bool   `json:"wantsDiscount"`
	CheckingOthers bool   `json:"checkingOthers"`
	LessVariety    bool   `json:"lessVariety"`
	Purchased      bool   `json:"purchased"`
	Other          string `json:"other"`
}

// ProductInterest is the canonical shape of one interest record after
// ingestion. Partial data is legal: an empty category or product list is
// kept as-is and simply contributes nothing to consolidation.
type ProductInterest struct {
	Category    string              `json:"category"`
	Products    []InterestProduct   `json:"products"`
	Preferences InterestPreferences `json:"preferences"`
}
