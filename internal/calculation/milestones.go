package calculation

import (
	"math"
	"time"

	"github.com/rpgo/lifeplan/internal/domain"
	"github.com/rpgo/lifeplan/pkg/dateutil"
)

// Milestone is a one-shot trigger. It fires the first time its predicate holds and
// never again during the run.
type Milestone struct {
	Name    string
	Trigger func(p *domain.Person, date time.Time) bool
	Action  func(p *domain.Person, date time.Time) // optional

	fired   bool
	firedAt time.Time
}

// Fired reports whether the milestone has fired
func (m *Milestone) Fired() bool { return m.fired }

// FiredAt returns the date the milestone fired, or the zero time
func (m *Milestone) FiredAt() time.Time { return m.firedAt }

// Check fires the milestone if it has not fired and its trigger holds at date.
// It reports whether the milestone fired on this call.
func (m *Milestone) Check(p *domain.Person, date time.Time) bool {
	if m.fired || m.Trigger == nil || !m.Trigger(p, date) {
		return false
	}
	m.fired = true
	m.firedAt = date
	if m.Action != nil {
		m.Action(p, date)
	}
	return true
}

// AgeMilestone fires once the person is at least years and months old
func AgeMilestone(name string, years, months int, action func(*domain.Person, time.Time)) *Milestone {
	return &Milestone{
		Name: name,
		Trigger: func(p *domain.Person, date time.Time) bool {
			return dateutil.HasReachedAge(p.Birth, date, years, months)
		},
		Action: action,
	}
}

// DateMilestone fires once date reaches the date returned by at. A zero date never fires.
func DateMilestone(name string, at func(*domain.Person) time.Time, action func(*domain.Person, time.Time)) *Milestone {
	return &Milestone{
		Name: name,
		Trigger: func(p *domain.Person, date time.Time) bool {
			when := at(p)
			return !when.IsZero() && !date.Before(when)
		},
		Action: action,
	}
}

// Milestone names
const (
	MilestoneCatchUp        = "catch-up contributions"
	MilestoneRuleOf55       = "rule of 55"
	MilestonePenaltyFree    = "penalty-free withdrawals"
	MilestoneSSEligible     = "social security eligibility"
	MilestoneMedicare       = "medicare eligibility"
	MilestoneFullRetirement = "social security full retirement age"
	MilestoneSSClaim        = "social security claim"
	MilestonePartTime       = "part-time work"
	MilestoneRetirement     = "retirement"
	MilestoneRMD            = "required minimum distributions"
	MilestoneLifeExpectancy = "life expectancy"
)

// DefaultMilestones returns the standard lifecycle milestones. Claiming Social
// Security sets the person's monthly benefit. lifeExpectancyAge of zero omits the
// life-expectancy milestone.
func DefaultMilestones(lifeExpectancyAge int) []*Milestone {
	ms := []*Milestone{
		AgeMilestone(MilestoneCatchUp, 50, 0, nil),
		{
			Name: MilestoneRuleOf55,
			Trigger: func(p *domain.Person, date time.Time) bool {
				sep, ok := p.SeparationDate()
				return ok && !date.Before(sep) && sep.Year() >= p.Birth.Year()+55 &&
					!dateutil.HasReachedAge(p.Birth, date, 59, 6)
			},
		},
		AgeMilestone(MilestonePenaltyFree, 59, 6, nil),
		AgeMilestone(MilestoneSSEligible, 62, 0, nil),
		AgeMilestone(MilestoneMedicare, 65, 0, nil),
		{
			Name: MilestoneFullRetirement,
			Trigger: func(p *domain.Person, date time.Time) bool {
				return p.AgeInMonths(date) >= p.FullRetirementAge()
			},
		},
		DateMilestone(MilestoneSSClaim, (*domain.Person).SSClaimDate, claimSocialSecurity),
		DateMilestone(MilestonePartTime, (*domain.Person).PartTimeDate, nil),
		DateMilestone(MilestoneRetirement, (*domain.Person).RetirementDate, nil),
		{
			Name: MilestoneRMD,
			Trigger: func(p *domain.Person, date time.Time) bool {
				return dateutil.AgeAtYearEnd(p.Birth, date.Year()) >= p.RMDStartAge()
			},
		},
	}
	if lifeExpectancyAge > 0 {
		ms = append(ms, AgeMilestone(MilestoneLifeExpectancy, lifeExpectancyAge, 0, nil))
	}
	return ms
}

// claimSocialSecurity fixes the monthly benefit from the claiming age
func claimSocialSecurity(p *domain.Person, _ time.Time) {
	ssc := NewSocialSecurityCalculator(p.Birth, p.SSBenefitAtFRA)
	p.SSMonthlyBenefit = ssc.BenefitAtClaim(p.SSClaimAgeMonths())
}

// lifeExpectancyAge returns the age the person is expected to reach, from their age at date
func lifeExpectancyAge(p *domain.Person, date time.Time, remaining func(age int) float64) int {
	age := p.Age(date)
	return age + int(math.Round(remaining(age)))
}
