package wizard

import "housingbridge/models"

// The setters below edit the record on the configure step and are
// ignored elsewhere. Transit score and Wi-Fi speed have no setter.

// SetPrice sets the monthly rent.
func (c *Controller) SetPrice(price float64) {
	c.edit(func(r *models.AuditRecord) { r.Price = price })
}

// SetNeighborhood sets the neighborhood label.
func (c *Controller) SetNeighborhood(n string) {
	c.edit(func(r *models.AuditRecord) { r.Neighborhood = n })
}

// SetScamScore sets the safety score, clamped to [0,100] like the slider.
func (c *Controller) SetScamScore(score int) {
	c.edit(func(r *models.AuditRecord) { r.ScamScore = models.ClampScore(score) })
}

// SetLandlordVerified sets the landlord verification flag.
func (c *Controller) SetLandlordVerified(v bool) {
	c.edit(func(r *models.AuditRecord) { r.LandlordVerified = v })
}

// SetRulesExplained sets the rules mediation flag.
func (c *Controller) SetRulesExplained(v bool) {
	c.edit(func(r *models.AuditRecord) { r.RulesExplained = v })
}

// ToggleLandlordVerified flips the landlord verification flag.
func (c *Controller) ToggleLandlordVerified() {
	c.edit(func(r *models.AuditRecord) { r.LandlordVerified = !r.LandlordVerified })
}

// ToggleRulesExplained flips the rules mediation flag.
func (c *Controller) ToggleRulesExplained() {
	c.edit(func(r *models.AuditRecord) { r.RulesExplained = !r.RulesExplained })
}

// Edit is a batch of configure-step changes; nil fields are left alone.
type Edit struct {
	Price            *float64
	Neighborhood     *string
	ScamScore        *int
	LandlordVerified *bool
	RulesExplained   *bool
}

// Apply makes every change in e in one step, notifying observers once.
func (c *Controller) Apply(e Edit) {
	c.edit(func(r *models.AuditRecord) {
		if e.Price != nil {
			r.Price = *e.Price
		}
		if e.Neighborhood != nil {
			r.Neighborhood = *e.Neighborhood
		}
		if e.ScamScore != nil {
			r.ScamScore = models.ClampScore(*e.ScamScore)
		}
		if e.LandlordVerified != nil {
			r.LandlordVerified = *e.LandlordVerified
		}
		if e.RulesExplained != nil {
			r.RulesExplained = *e.RulesExplained
		}
	})
}

func (c *Controller) edit(fn func(*models.AuditRecord)) {
	c.update(func() bool {
		if c.step != StepConfigure {
			return false
		}
		before := c.record
		fn(&c.record)
		return c.record != before
	})
}
