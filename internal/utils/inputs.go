package utils

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// PromptYesNoFrom asks question on w and reads the answer from r until it
// gets y/yes or n/no. End of input counts as no.
func PromptYesNoFrom(r io.Reader, w io.Writer, question string) bool {
	reader := bufio.NewReader(r)
	for {
		fmt.Fprintf(w, "%s (y/n): ", question)
		response, err := reader.ReadString('\n')
		response = strings.ToLower(strings.TrimSpace(response))

		switch response {
		case "y", "yes":
			return true
		case "n", "no":
			return false
		}
		if err != nil {
			return false
		}
		fmt.Fprintln(w, "Please enter y or n")
	}
}
