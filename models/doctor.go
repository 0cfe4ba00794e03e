package models

// Doctor is a directory entry patients can search and book.
type Doctor struct {
	ID             string  `bson:"id" json:"id"`
	Name           string  `bson:"name" json:"name"`
	Specialization string  `bson:"specialization" json:"specialization"`
	Rating         float64 `bson:"rating" json:"rating"`
	Reviews        int     `bson:"reviews" json:"reviews"`
	Availability   string  `bson:"availability" json:"availability"`
	Location       string  `bson:"location" json:"location"`
	About          string  `bson:"about" json:"about,omitempty"`
	Image          string  `bson:"image" json:"image"`
}
