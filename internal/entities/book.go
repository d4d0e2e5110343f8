package entities

// Book is the only entity in the catalog. Isbn is the primary key and is set by
// the client; it never changes once the row exists.
type Book struct {
	Isbn             string `gorm:"column:Isbn;primaryKey" json:"Isbn" validate:"isbn"`
	Title            string `gorm:"column:Title" json:"Title" validate:"notblank"`
	Author           string `gorm:"column:Author" json:"Author" validate:"notblank"`
	ShortDescription string `gorm:"column:ShortDescription" json:"ShortDescription"`
	PageCount        int    `gorm:"column:PageCount" json:"PageCount"`
	ReleaseDate      Date   `gorm:"column:ReleaseDate" json:"ReleaseDate"`
}

func (Book) TableName() string {
	return "Books"
}
