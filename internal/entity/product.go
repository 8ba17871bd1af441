package entity

// ProductRow is one extracted product listing. A qualifying page emits one
// row per detected product; rows from the same page share manufacturer and
// page number.
type ProductRow struct {
	ProductName  string
	Manufacturer string
	PageNumber   int // 1-based
}
