/*
xsdresolve resolves an XML Schema and the schemas it includes, and
writes a report of the resolved model.

Usage:

	xsdresolve [-c config.yaml] [-o dir] [-v level] [-k] schema.xsd

The schema may be a file path or any URL understood by the
github.com/viant/afs storage service. Included schemas are located
relative to the schema that includes them.

The report is written to the directory named by -o, "." by default,
as the following files:

	elements.tsv          name, declared type and schema of each element
	types.tsv             name and schema of each named type
	notHandledTags.txt    tag paths of unsupported constructs
	baseTypes.txt         built-in types in use
	unreferencedTypes.txt named types nothing uses
	schemas.txt           every schema read, included ones first

The -v flag sets the verbosity of the log written to standard error,
from 0 to 5. With -k, declarations that fail to resolve are logged and
skipped instead of stopping the run.

Settings can also be read from a YAML file given with -c:

	schema: orders/order.xsd
	output: report
	logLevel: 1
	continueOnError: true
	documentCache: 512

Flags given on the command line take precedence over the file.
*/
package main
