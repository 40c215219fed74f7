package sim

// IdentityPool supplies cosmetic names: a first name plus a last initial.
// Names never influence the simulation.
type IdentityPool struct {
	Names    []string
	Initials string
}

// DefaultInitials omits O to avoid confusion with zero in printed tables.
const DefaultInitials = "ABCDEFGHIJKLMNPQRSTUVWXYZ"

// DefaultIdentityPool returns a small built-in first-name corpus.
func DefaultIdentityPool() *IdentityPool {
	return &IdentityPool{
		Names: []string{
			"Aaron", "Abigail", "Adalberto", "Ada", "Adam", "Aisha", "Alejandro", "Alice",
			"Amir", "Ana", "Andrei", "Anjali", "Beatriz", "Ben", "Bianca", "Bo",
			"Carlos", "Chen", "Chloe", "Dalia", "Daniel", "Deepak", "Diego", "Elena",
			"Emeka", "Fatima", "Felix", "Grace", "Hana", "Hassan", "Ines", "Ivan",
			"Jamal", "Jin", "Jose", "Kai", "Keiko", "Lars", "Leila", "Luis",
			"Maria", "Mateo", "Mei", "Nadia", "Nikhil", "Noah", "Olga", "Omar",
			"Priya", "Quinn", "Rafael", "Rosa", "Sam", "Sofia", "Tariq", "Tomas",
			"Uma", "Vera", "Wei", "Xavier", "Yara", "Yusuf", "Zoe", "Zoran",
		},
		Initials: DefaultInitials,
	}
}

// Draw returns a random "First L" name, or "" when the pool is empty.
func (p *IdentityPool) Draw(rng Source) string {
	if p == nil || len(p.Names) == 0 {
		return ""
	}
	name := p.Names[pick(rng, len(p.Names))]
	if p.Initials == "" {
		return name
	}
	initials := []rune(p.Initials)
	return name + " " + string(initials[pick(rng, len(initials))])
}

// pick returns a uniform index in [0, n).
func pick(rng Source, n int) int {
	i := int(rng.Float64() * float64(n))
	if i >= n {
		i = n - 1
	}
	return i
}
