package model

// CartItem 是购物车中的一项，保存在 Redis 中。
type CartItem struct {
	SkuID    uint `json:"skuId"`
	Quantity int  `json:"quantity"`
}

// CartLine 是购物车展示时的一行，价格以分为单位。
type CartLine struct {
	SkuID       uint   `json:"skuId"`
	SkuCode     string `json:"skuCode"`
	ProductID   uint   `json:"productId"`
	ProductName string `json:"productName"`
	Spec        string `json:"spec"`
	UnitPrice   int64  `json:"unitPrice"`
	Quantity    int    `json:"quantity"`
	Amount      int64  `json:"amount"`
	Available   bool   `json:"available"`
}

// CartView 是购物车的汇总视图。
type CartView struct {
	Lines         []CartLine `json:"lines"`
	TotalQuantity int        `json:"totalQuantity"`
	Subtotal      int64      `json:"subtotal"`
	Discount      int        `json:"discount"`
	Total         int64      `json:"total"`
}
