package manifest

import (
	"modject/pkg/entrypoint"
)

// EntryPoints builds inert entry points from the manifest, in declaration
// order.
//
// Contributions without a layer take the layer of their entry point. Plain
// string dependencies are resolved to the key of the slot contributed under
// that name; when nothing contributes it the reference stays untagged. Run
// reads every dependency, Contribute provides a Placeholder for every
// declared slot and Withdraw retracts them all.
func (m *Manifest) EntryPoints() []entrypoint.EntryPoint {
	contributed := make(map[string]entrypoint.SlotKey)
	for _, spec := range m.EntryPoints {
		for _, key := range spec.contributions() {
			if _, ok := contributed[key.Name]; !ok {
				contributed[key.Name] = key
			}
		}
	}

	eps := make([]entrypoint.EntryPoint, 0, len(m.EntryPoints))
	for _, spec := range m.EntryPoints {
		eps = append(eps, spec.entryPoint(contributed))
	}
	return eps
}

func (s EntryPointSpec) contributions() []entrypoint.SlotKey {
	keys := make([]entrypoint.SlotKey, 0, len(s.Contributes))
	for _, ref := range s.Contributes {
		key := ref.Key()
		if key.Layer == "" {
			key.Layer = s.Layer
		}
		keys = append(keys, key)
	}
	return keys
}

func (s EntryPointSpec) dependencies(contributed map[string]entrypoint.SlotKey) []entrypoint.SlotKey {
	keys := make([]entrypoint.SlotKey, 0, len(s.DependsOn))
	for _, ref := range s.DependsOn {
		key := ref.Key()
		if ref.Short() {
			if c, ok := contributed[ref.Name]; ok {
				key = c
			}
		}
		keys = append(keys, key)
	}
	return keys
}

func (s EntryPointSpec) entryPoint(contributed map[string]entrypoint.SlotKey) entrypoint.EntryPoint {
	name := s.Name
	contributes := s.contributions()
	dependsOn := s.dependencies(contributed)

	return entrypoint.EntryPoint{
		Name:        name,
		Layer:       s.Layer,
		Contributes: contributes,
		DependsOn:   dependsOn,
		Run: func(shell entrypoint.RunShell) error {
			for _, key := range dependsOn {
				if _, err := shell.Get(key); err != nil {
					return err
				}
			}
			return nil
		},
		Contribute: func(shell entrypoint.ContributeShell) error {
			for _, key := range contributes {
				value := Placeholder{EntryPoint: name, Slot: key.Name}
				factory := func(entrypoint.RunShell) (any, error) { return value, nil }
				if err := shell.Contribute(key, factory); err != nil {
					return err
				}
			}
			return nil
		},
		Withdraw: func(shell entrypoint.WithdrawShell) error {
			for _, key := range contributes {
				if err := shell.Withdraw(key); err != nil {
					return err
				}
			}
			return nil
		},
	}
}
