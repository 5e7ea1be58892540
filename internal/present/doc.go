// Package present is the headless presentation layer the engine writes to.
//
// A Document holds Elements with attributes and inline style. It
// implements engine.Output: values are formatted with cssval and written to
// an attribute or a style property, transform channels are composed into a
// transform attribute, and every write is reported to the registered Sinks.
//
// Document also resolves property names that are not built in, standing in
// for host style introspection.
package present
