/*
Package gconf implements a configuration store intended to be used as a
global, in-database configuration.

Each extension owns a single configuration entry stored under "_c:<pkg>".
It is loaded from the genesis file once, validated on every save and read
by handlers before they act.

Not being able to get a configuration value is a critical condition for the
application and there is no recovery path for the client. Application must
be terminated and configured correctly.
*/
package gconf
