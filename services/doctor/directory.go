package doctor

import (
	"errors"
	"sort"
	"strings"
	"sync"

	"medischedule/models"
)

// ErrDoctorNotFound is returned by Get for an unknown id.
var ErrDoctorNotFound = errors.New("doctor not found")

const placeholderImage = "/placeholder.svg?height=200&width=200"

// DirectoryService answers patient searches over the doctor directory.
type DirectoryService interface {
	Search(term string) []models.Doctor
	Get(id string) (*models.Doctor, error)
	IDs() []string
}

// Directory is an in-memory doctor directory.
type Directory struct {
	mu      sync.RWMutex
	doctors []models.Doctor
}

func NewDirectory(doctors []models.Doctor) *Directory {
	d := &Directory{doctors: append([]models.Doctor(nil), doctors...)}
	sort.SliceStable(d.doctors, func(i, j int) bool { return d.doctors[i].ID < d.doctors[j].ID })
	return d
}

// Search matches term case-insensitively against name or specialization.
// An empty term returns every doctor.
func (d *Directory) Search(term string) []models.Doctor {
	d.mu.RLock()
	defer d.mu.RUnlock()

	needle := strings.ToLower(strings.TrimSpace(term))
	out := make([]models.Doctor, 0, len(d.doctors))
	for _, doc := range d.doctors {
		if needle == "" ||
			strings.Contains(strings.ToLower(doc.Name), needle) ||
			strings.Contains(strings.ToLower(doc.Specialization), needle) {
			out = append(out, doc)
		}
	}
	return out
}

func (d *Directory) Get(id string) (*models.Doctor, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	for _, doc := range d.doctors {
		if doc.ID == id {
			found := doc
			return &found, nil
		}
	}
	return nil, ErrDoctorNotFound
}

// IDs lists every doctor id in directory order.
func (d *Directory) IDs() []string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	ids := make([]string, len(d.doctors))
	for i, doc := range d.doctors {
		ids[i] = doc.ID
	}
	return ids
}

// SampleDoctors is the demo directory. "d1" is the demo doctor account.
func SampleDoctors() []models.Doctor {
	return []models.Doctor{
		{
			ID: "d1", Name: "Dr. Sarah Johnson", Specialization: "Cardiologist",
			Rating: 4.8, Reviews: 124, Availability: "Available Today",
			Location: "Main Hospital, Suite 302",
			About:    "Board-certified cardiologist with over 15 years of experience in preventive cardiology, heart disease management, and cardiac rehabilitation.",
			Image:    placeholderImage,
		},
		{
			ID: "d2", Name: "Dr. Michael Chen", Specialization: "Dermatologist",
			Rating: 4.7, Reviews: 98, Availability: "Next Available: Tomorrow",
			Location: "Dermatology Clinic, Suite 5", Image: placeholderImage,
		},
		{
			ID: "d3", Name: "Dr. Emily Rodriguez", Specialization: "Pediatrician",
			Rating: 4.9, Reviews: 156, Availability: "Available Today",
			Location: "Children's Medical Center", Image: placeholderImage,
		},
		{
			ID: "d4", Name: "Dr. James Wilson", Specialization: "Orthopedic Surgeon",
			Rating: 4.6, Reviews: 87, Availability: "Next Available: Friday",
			Location: "Orthopedic Specialists, Room 110", Image: placeholderImage,
		},
		{
			ID: "d5", Name: "Dr. Olivia Thompson", Specialization: "Neurologist",
			Rating: 4.9, Reviews: 112, Availability: "Available Today",
			Location: "Main Hospital, Neurology Wing", Image: placeholderImage,
		},
		{
			ID: "d6", Name: "Dr. Robert Kim", Specialization: "Family Medicine",
			Rating: 4.7, Reviews: 143, Availability: "Next Available: Tomorrow",
			Location: "Family Health Center", Image: placeholderImage,
		},
	}
}
