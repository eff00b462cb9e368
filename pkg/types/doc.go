/*
Package types defines the configuration records managed by otool.

Records are plain structs with camelCase JSON and YAML tags. Each record
kind implements Item, which is how pkg/storage and pkg/manager address it:

	task         Task            build or test step
	jdkProject   JDKProject      product built from a source repository
	jdkTestProject JDKTestProject tests run against builds of a product
	platform     Platform        OS/architecture jobs run on
	product      Product         reference list entry
	buildProvider BuildProvider  reference list entry

# Defaults

The New* constructors return records with the defaults an editor starts
from: empty (non-nil) lists, NONE limitation flags, a TEST task on VM and a
project repository in NOT_CLONED state. Records decoded from storage keep
whatever the stored JSON held; pkg/draft fills in the defaults when it
overwrites a draft with such a record.

# Enumerations

Enumerated fields are string types with a closed set of values. The Parse*
functions validate input coming from outside (command line, apply files)
and wrap ErrInvalidValue. Validate checks every enumerated field of a
record at once.

# Copies

Clone returns a deep copy. Lists that were nil stay nil so that a copy of a
decoded record compares equal to the original.
*/
package types
