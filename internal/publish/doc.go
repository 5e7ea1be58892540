// Package publish streams document writes to an MQTT broker.
//
// Every sample is published as JSON to <topic>/<target>/<property>:
//
//	{"target":"box","property":"transform","value":"translate(10,0)","seq":42}
//
// seq increases by one per published sample, so subscribers can detect
// drops and reorder.
package publish
