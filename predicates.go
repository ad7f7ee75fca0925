package gosm

// InvariantsAll combines invariant checks into one. The checks run in order
// and the first failure is reported.
func InvariantsAll[C, S any](checks ...func(C, S) error) func(C, S) error {
	return func(state C, refState S) error {
		for _, check := range checks {
			if err := check(state, refState); err != nil {
				return err
			}
		}
		return nil
	}
}
