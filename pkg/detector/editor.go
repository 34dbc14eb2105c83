package detector

import "github.com/ccollicutt/logsieve/pkg/logentry"

// Editor passes through input the editor already separated.
func Editor(message, stack string, severity logentry.Severity) Record {
	return Record{
		Kind:     logentry.SourceEditor,
		Severity: severity,
		Message:  message,
		Stack:    stack,
	}
}
