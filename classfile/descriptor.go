package classfile

import "strings"

// NumParams counts the parameter tokens in a method descriptor of the form
// "(<params>)<ret>". Any leading '[' prefixes mark an array type and bind to
// the following component type — the whole token still counts as one
// parameter. A primitive letter is one parameter, and an "L<classname>;"
// reference token is one parameter running up to its terminating ';', so
// "([Ljava/lang/String;)V" has one parameter.
func NumParams(descriptor string) int {
	open := strings.IndexByte(descriptor, '(')
	close := strings.IndexByte(descriptor, ')')
	if open < 0 || close < 0 || close < open {
		return 0
	}

	params := 0
	for i := open + 1; i < close; i++ {
		for i < close && descriptor[i] == '[' {
			i++
		}
		if i >= close {
			break
		}
		if descriptor[i] == 'L' {
			for i < close && descriptor[i] != ';' {
				i++
			}
		}
		params++
	}
	return params
}
