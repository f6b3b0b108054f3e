package history

import "time"

// Adapter bridges Store to the core RunHistory port.
type Adapter struct {
	store  *Store
	retain int
}

func NewAdapter(store *Store, retain int) *Adapter {
	return &Adapter{store: store, retain: retain}
}

// Record saves the run and trims old rows of the same project.
func (a *Adapter) Record(run Run) error {
	if err := a.store.SaveRun(run); err != nil {
		return err
	}
	_, err := a.store.Prune(run.ProjectKey, a.retain)
	return err
}

func (a *Adapter) Runs(projectKey string, since time.Time, limit int) ([]Run, error) {
	return a.store.LoadRuns(projectKey, since, limit)
}

func (a *Adapter) LastDigest(projectKey string) (string, error) {
	return a.store.LastDigest(projectKey)
}

func (a *Adapter) Close() error {
	return a.store.Close()
}
