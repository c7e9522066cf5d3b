// Package spec parses the manpages build specification: a compact,
// colon-delimited grammar declaring which manual pages to build and from
// which program entry points. A specification is a multi-line string where
// every non-empty line declares one page:
//
//	OUTPUT_FILE:opt1=val1:opt2=val2:...
//
// # Grammar
//
// The first colon-delimited token is the output filename, taken verbatim
// (filenames therefore must not contain a colon). Every following token is
// a name=value option, split on the first "=":
//
//	manbuild.1:function=get_parser:module=manbuild.cli:author=Jane Doe <jane@example.com>
//	tool.1:object=parser:pyfile=bin/tool.py:format=single-commands-section
//
// Recognized option names:
//
//   - function, object — how to obtain the parser (call a function, or use
//     an object directly); at most one per page
//   - pyfile, module — where to import it from; at most one per page;
//     pyfile also derives the program name from the file's basename
//   - format — page layout ("pretty", "single-commands-section", "old");
//     at most one per page
//   - author — may repeat; every occurrence appends to the author list
//   - prog, description, long_description, project_name, version, url,
//     date, manual_section, manual_title, include, manfile — page metadata
//     attributes; each at most once per page
//
// Any other option name fails the whole parse with a grammar error naming
// the offending option. A later line that repeats an output filename
// replaces the earlier record entirely, keeping its original position.
//
// # Usage
//
//	pages, err := spec.Parse(text)
//	if err != nil {
//	    var gerr *spec.GrammarError
//	    if errors.As(err, &gerr) {
//	        // gerr.Line and gerr.Option locate the problem
//	    }
//	    return err
//	}
//	for _, page := range pages.All() {
//	    // generate page.OutputFile
//	}
package spec
