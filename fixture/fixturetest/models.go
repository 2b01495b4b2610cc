package fixturetest

import "gorm.io/gorm"

// Author is a minimal model for fixture tests.
type Author struct {
	ID   uint   `gorm:"primaryKey" fixture:"id"`
	Name string `fixture:"name"`
}

// Book references an Author and carries a BeforeCreate default, so tests can
// tell the model path (hook runs) apart from the table path (hook bypassed).
type Book struct {
	ID       uint    `gorm:"primaryKey" fixture:"id"`
	Title    string  `fixture:"title"`
	AuthorID uint    `fixture:"author_id"`
	Author   *Author `fixture:"-"`
}

// BeforeCreate fills in a default title, standing in for model-level default
// machinery.
func (b *Book) BeforeCreate(_ *gorm.DB) error {
	if b.Title == "" {
		b.Title = "Untitled"
	}
	return nil
}
