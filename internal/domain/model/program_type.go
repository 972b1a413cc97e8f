package model

// ProgramType — запись двуязычного справочника типов программ.
// Справочник read-only: заполняется миграцией-сидом и не меняется в рантайме.
type ProgramType struct {
	// ID — целочисленный первичный ключ
	ID int
	// NameEn — английское отображаемое название
	NameEn string
	// NameFr — французское отображаемое название
	NameFr string
}
