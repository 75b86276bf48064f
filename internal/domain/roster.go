package domain

import "github.com/google/uuid"

// Vehicle is an entry in the vehicle roster. Plate is always upper-case.
// Removing a vehicle leaves trips that reference it untouched.
type Vehicle struct {
	ID    uuid.UUID `json:"id"`
	Plate string    `json:"plate"`
	Model string    `json:"model"`
}

// Volunteer is an entry in the volunteer roster.
type Volunteer struct {
	ID      uuid.UUID `json:"id"`
	Name    string    `json:"name"`
	Surname string    `json:"surname"`
}

// FullName returns "Name Surname", the form snapshotted into Trip.DriverName.
func (v Volunteer) FullName() string {
	return v.Name + " " + v.Surname
}

// MissingPlate is shown in place of a plate when a trip's vehicle has been
// removed from the roster.
const MissingPlate = "N/D"

// PlateFor returns the plate of the vehicle with the given id, or MissingPlate
// when the id is not in the roster.
func PlateFor(vehicles []Vehicle, id uuid.UUID) string {
	for _, v := range vehicles {
		if v.ID == id {
			return v.Plate
		}
	}
	return MissingPlate
}
