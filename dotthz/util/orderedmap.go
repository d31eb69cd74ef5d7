// Package util has helpers shared by the container engines.
package util

// OrderedMap is a string-keyed map that remembers insertion order.
// Container engines use it to hold group attributes, whose order is
// significant for the positional md/ds attribute families.
type OrderedMap struct {
	keys   []string
	values map[string]any
}

func NewOrderedMap() *OrderedMap {
	return &OrderedMap{
		values: map[string]any{},
	}
}

// Set inserts or overwrites a value.  Overwriting keeps the key's original
// position.
func (om *OrderedMap) Set(name string, val any) {
	if _, has := om.values[name]; !has {
		om.keys = append(om.keys, name)
	}
	om.values[name] = val
}

func (om *OrderedMap) Get(key string) (val any, has bool) {
	val, has = om.values[key]
	return
}

// Delete removes a key.  Deleting an absent key is a no-op.
func (om *OrderedMap) Delete(key string) {
	if _, has := om.values[key]; !has {
		return
	}
	delete(om.values, key)
	keys := om.keys[:0]
	for _, k := range om.keys {
		if k != key {
			keys = append(keys, k)
		}
	}
	om.keys = keys
}

// Keys returns the keys in insertion order.  The slice is a copy.
func (om *OrderedMap) Keys() []string {
	keys := make([]string, len(om.keys))
	copy(keys, om.keys)
	return keys
}

func (om *OrderedMap) Len() int {
	return len(om.keys)
}
