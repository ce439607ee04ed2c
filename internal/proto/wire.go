package proto

// UserInfo is the wire shape of a user entry inside welcome parameters.
// Name is null until the user has set one.
type UserInfo struct {
	ID    int64   `json:"id"`
	Color string  `json:"color"`
	Name  *string `json:"name"`
}

// LineInfo is the wire shape of one drawn line inside restore parameters.
type LineInfo struct {
	Color string  `json:"color"`
	X1    float64 `json:"x1"`
	Y1    float64 `json:"y1"`
	X2    float64 `json:"x2"`
	Y2    float64 `json:"y2"`
}
