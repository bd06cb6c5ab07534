package models

// All lists every model in dependency order, for AutoMigrate
func All() []interface{} {
	return []interface{}{&Team{}, &User{}, &Report{}, &PlanItem{}, &Briefing{}}
}
