package grocery

// RootCategoryID is the category ID used when fetching a store's top-level menu.
const RootCategoryID = 0

// MenuCategory is a node in a store's menu tree. A category either contains
// sub-categories or items, never both.
type MenuCategory struct {
	ID            int    `json:"id" firestore:"id"`
	ParentID      int    `json:"parentId" firestore:"parentId"`
	Name          string `json:"name" firestore:"name"`
	ImageURL      string `json:"imageUrl,omitempty" firestore:"imageUrl"`
	HasSubpages   bool   `json:"hasSubpages" firestore:"hasSubpages"`
	ItemCount     int    `json:"itemCount" firestore:"itemCount"`
	SortSequence  int    `json:"sortSequence" firestore:"sortSequence"`
	ActionTagline string `json:"actionTagline,omitempty" firestore:"actionTagline"`
}

// MenuItem is a purchasable product within a menu category.
type MenuItem struct {
	ID           int      `json:"id" firestore:"id"`
	Name         string   `json:"name" firestore:"name"`
	EposCode     string   `json:"eposCode" firestore:"eposCode"`
	Description  string   `json:"description,omitempty" firestore:"description"`
	Price        float64  `json:"price" firestore:"price"`
	WasPrice     float64  `json:"wasPrice,omitempty" firestore:"wasPrice"`
	ImageURLs    []string `json:"imageUrls,omitempty" firestore:"imageUrls"`
	Available    bool     `json:"available" firestore:"available"`
	QuantityCap  int      `json:"quantityCap,omitempty" firestore:"quantityCap"`
	AgeRestrict  int      `json:"ageRestrict,omitempty" firestore:"ageRestrict"`
	DealTagline  string   `json:"dealTagline,omitempty" firestore:"dealTagline"`
	SizesEnabled bool     `json:"sizesEnabled" firestore:"sizesEnabled"`
}

// MenuFetch is the payload for a single menu page: the categories under the
// requested category, or the items if the category is a leaf.
type MenuFetch struct {
	StoreID    int            `json:"storeId" firestore:"storeId"`
	CategoryID int            `json:"categoryId" firestore:"categoryId"`
	Categories []MenuCategory `json:"categories,omitempty" firestore:"categories"`
	Items      []MenuItem     `json:"items,omitempty" firestore:"items"`
}

// MenuItemSearchResult is the payload of a free-text search across a store's menu.
type MenuItemSearchResult struct {
	StoreID    int            `json:"storeId" firestore:"storeId"`
	Term       string         `json:"term" firestore:"term"`
	Items      []MenuItem     `json:"items,omitempty" firestore:"items"`
	Categories []MenuCategory `json:"categories,omitempty" firestore:"categories"`
}
