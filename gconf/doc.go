/*
Package gconf implements a configuration store intended to be used as a
per-package, in-database configuration.

Each package stores a single configuration object under the "_c:<package>"
key. The initial value is loaded from the genesis file (see InitConfig) and
can later be changed only by the configuration owner, through a message
handled by UpdateConfigurationHandler.
*/
package gconf
