package models

// All returns every model in foreign-key-safe order for AutoMigrate.
func All() []any {
	return []any{
		&Client{},
		&Freelancer{},
		&Admin{},
		&Skill{},
		&Task{},
		&Application{},
		&Contract{},
		&Milestone{},
		&Payment{},
		&Review{},
		&Complaint{},
		&Message{},
		&FreelancerSkill{},
		&TaskSkill{},
		&FreelancerExperience{},
		&AuditLog{},
	}
}
