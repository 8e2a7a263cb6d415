package registry

import "fmt"

// RegisterTask registers a task definition. Registering the same name twice
// is a programmer error and panics.
func (r *Registry) RegisterTask(name string, def TaskDefinition) {
	if _, exists := r.tasks[name]; exists {
		panic(fmt.Sprintf("task %q already registered", name))
	}
	logRegistration("task", name)
	r.tasks[name] = def
}

// RegisterDatasetClass registers a dataset class under its persistent class
// identifier, the name stored in checkpoint headers.
func (r *Registry) RegisterDatasetClass(name string, class DatasetClass) {
	if _, exists := r.datasetClasses[name]; exists {
		panic(fmt.Sprintf("dataset class %q already registered", name))
	}
	logRegistration("dataset class", name)
	r.datasetClasses[name] = class
}

// RegisterModelClass registers a model class under its persistent class
// identifier.
func (r *Registry) RegisterModelClass(name string, class ModelClass) {
	if _, exists := r.modelClasses[name]; exists {
		panic(fmt.Sprintf("model class %q already registered", name))
	}
	logRegistration("model class", name)
	r.modelClasses[name] = class
}

// RegisterMessagePassing registers a message-passing implementation name.
func (r *Registry) RegisterMessagePassing(name string, def MessagePassing) {
	if _, exists := r.messagePassing[name]; exists {
		panic(fmt.Sprintf("message-passing implementation %q already registered", name))
	}
	logRegistration("message passing", name)
	r.messagePassing[name] = def
}

// Task looks up a task definition by name.
func (r *Registry) Task(name string) (TaskDefinition, error) {
	def, ok := r.tasks[name]
	if !ok {
		return TaskDefinition{}, &UnknownTaskError{Name: name, Known: r.KnownTasks()}
	}
	return def, nil
}

// HasMessagePassing reports whether the named implementation is registered.
func (r *Registry) HasMessagePassing(name string) bool {
	_, ok := r.messagePassing[name]
	return ok
}

// CheckMessagePassing returns an UnknownModelError if the named implementation
// is not registered.
func (r *Registry) CheckMessagePassing(name string) error {
	if !r.HasMessagePassing(name) {
		return &UnknownModelError{Name: name, Known: r.KnownMessagePassing()}
	}
	return nil
}

// DatasetClassByName looks up a dataset class by its persistent identifier.
func (r *Registry) DatasetClassByName(name string) (DatasetClass, error) {
	class, ok := r.datasetClasses[name]
	if !ok {
		return DatasetClass{}, fmt.Errorf("unknown dataset class %q", name)
	}
	return class, nil
}

// ModelClassByName looks up a model class by its persistent identifier.
func (r *Registry) ModelClassByName(name string) (ModelClass, error) {
	class, ok := r.modelClasses[name]
	if !ok {
		return ModelClass{}, fmt.Errorf("unknown model class %q", name)
	}
	return class, nil
}
