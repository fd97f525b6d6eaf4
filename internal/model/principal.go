package model

// Admin is a permanent administrative account. Admins have no delete flag;
// once created they stay.
type Admin struct {
	ID           int64  `db:"id" json:"id"`
	Email        string `db:"email" json:"email"`
	Name         string `db:"name" json:"name"`
	PasswordHash string `db:"password" json:"-"`
	CreatedBy    int64  `db:"created_by" json:"created_by"`
}

// Principal is a doctor or patient row. The two tables share a shape, so
// one model (and one parameterized repository) serves both.
type Principal struct {
	ID           int64  `db:"id" json:"id"`
	Email        string `db:"email" json:"email"`
	Name         string `db:"name" json:"name"`
	PasswordHash string `db:"password" json:"-"`
	CreatedBy    int64  `db:"created_by" json:"created_by"`
	Deleted      bool   `db:"deleted" json:"deleted"`
}

// AdminProfile is the restricted projection returned from admin lookup
// endpoints. No credential hash, ever.
type AdminProfile struct {
	ID        int64  `db:"id" json:"id"`
	Name      string `db:"name" json:"name"`
	Email     string `db:"email" json:"email"`
	CreatedBy int64  `db:"created_by" json:"created_by"`
}

// PrincipalProfile is the restricted projection for doctor/patient lookups.
type PrincipalProfile struct {
	ID        int64  `db:"id" json:"id"`
	Name      string `db:"name" json:"name"`
	Email     string `db:"email" json:"email"`
	CreatedBy int64  `db:"created_by" json:"created_by"`
	Deleted   bool   `db:"deleted" json:"deleted"`
}

func (a *Admin) Profile() *AdminProfile {
	return &AdminProfile{ID: a.ID, Name: a.Name, Email: a.Email, CreatedBy: a.CreatedBy}
}

func (p *Principal) Profile() *PrincipalProfile {
	return &PrincipalProfile{ID: p.ID, Name: p.Name, Email: p.Email, CreatedBy: p.CreatedBy, Deleted: p.Deleted}
}
