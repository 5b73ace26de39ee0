package labs

import "time"

// Lab represents one diagnostic center in the directory. The capability core
// only consumes its id and active flag; everything else is directory data.
type Lab struct {
	ID        string
	Name      string
	City      string
	IsActive  bool
	SeenAt    time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}
