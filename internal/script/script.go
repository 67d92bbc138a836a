// Package script renders the machine-replayable counterpart of the live
// cleaning pipeline: a standalone Python script, parameterized only by an
// input/output path pair, that reapplies the classifier and all five
// transformation stages.
//
// The thresholds are injected from the same constants the live pipeline
// uses (classify and pipeline packages), so the rendered script cannot
// drift from the implemented behavior.
package script

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"

	"cleanbot/internal/classify"
	"cleanbot/internal/pipeline"
)

// params is the data fed to the template.
type params struct {
	StepDescriptions []string
	Columns          string

	NumericThreshold      float64
	DateThreshold         float64
	CategoricalUniqueness float64
	DateFixThreshold      float64
	IQRFactor             float64
}

// Render produces the replay script from the completed step log and the
// original column names.
func Render(steps []pipeline.Step, columns []string) ([]byte, error) {
	p := params{
		Columns:               strings.Join(columns, ", "),
		NumericThreshold:      classify.NumericThreshold,
		DateThreshold:         classify.DateThreshold,
		CategoricalUniqueness: classify.CategoricalUniqueness,
		DateFixThreshold:      pipeline.DateFixThreshold,
		IQRFactor:             pipeline.IQRFactor,
	}
	for _, s := range steps {
		p.StepDescriptions = append(p.StepDescriptions, s.Description)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, p); err != nil {
		return nil, fmt.Errorf("script: render: %w", err)
	}
	return buf.Bytes(), nil
}

var tmpl = template.Must(template.New("replay").Parse(replaySource))

// replaySource is the Python replay. It deliberately avoids f-strings so
// the Go template actions are the only braces that matter here.
const replaySource = `"""
Auto-generated data cleaning script.

Replays the cleaning operations performed on the original dataset:
{{- range .StepDescriptions}}
  - {{.}}
{{- end}}

Original columns: {{.Columns}}
"""

import sys

import numpy as np
import pandas as pd

NUMERIC_THRESHOLD = {{.NumericThreshold}}
DATE_THRESHOLD = {{.DateThreshold}}
CATEGORICAL_UNIQUENESS = {{.CategoricalUniqueness}}
DATE_FIX_THRESHOLD = {{.DateFixThreshold}}
IQR_FACTOR = {{.IQRFactor}}


def clean_string(value):
    """Trim leading/trailing whitespace and lowercase a string value."""
    if not isinstance(value, str):
        return value
    return value.strip().lower()


def detect_column_type(series):
    """Classify a column: numeric, date, categorical, string, or unknown."""
    non_null = series.dropna()
    if len(non_null) == 0:
        return "unknown"

    numeric = pd.to_numeric(series, errors="coerce")
    if numeric.notna().sum() > len(non_null) * NUMERIC_THRESHOLD:
        return "numeric"

    dates = pd.to_datetime(series, errors="coerce")
    if dates.notna().sum() > len(non_null) * DATE_THRESHOLD:
        return "date"

    unique_ratio = len(non_null.unique()) / len(non_null)
    if unique_ratio < CATEGORICAL_UNIQUENESS:
        return "categorical"
    return "string"


def clean_data(input_csv, output_csv="cleaned_data.csv"):
    """Apply the full cleaning sequence to input_csv and write output_csv."""
    print("Loading " + input_csv + "...")
    df = pd.read_csv(input_csv)
    original_rows = len(df)

    # Step 1: trim and normalize strings in textual columns.
    print("Step 1: trimming and normalizing strings...")
    for col in df.select_dtypes(include=["object"]).columns:
        df[col] = df[col].apply(lambda x: clean_string(x) if isinstance(x, str) else x)

    # Step 2: rewrite date columns to YYYY-MM-DD, all-or-nothing per column.
    print("Step 2: fixing date formats...")
    for col in df.columns:
        if detect_column_type(df[col]) != "date":
            continue
        converted = pd.to_datetime(df[col], errors="coerce")
        if converted.notna().sum() / len(df) > DATE_FIX_THRESHOLD:
            df[col] = converted.dt.strftime("%Y-%m-%d")

    # Step 3: fill missing values per column kind.
    print("Step 3: handling missing values...")
    for col in df.columns:
        if df[col].isna().sum() == 0:
            continue
        if pd.api.types.is_numeric_dtype(df[col]):
            numeric = pd.to_numeric(df[col], errors="coerce")
            median_val = numeric.median()
            if not pd.isna(median_val):
                df[col] = numeric.fillna(median_val)
            else:
                mode_val = df[col].mode()
                if len(mode_val) > 0:
                    df[col] = df[col].fillna(mode_val[0])
        elif detect_column_type(df[col]) == "date":
            df[col] = df[col].ffill().bfill()
        else:
            mode_val = df[col].mode()
            if len(mode_val) > 0:
                df[col] = df[col].fillna(mode_val[0])
            else:
                df[col] = df[col].fillna("")

    # Step 4: drop exact duplicate rows, keeping first occurrences.
    print("Step 4: removing duplicates...")
    before = len(df)
    df = df.drop_duplicates(keep="first")
    print("Removed %d duplicates" % (before - len(df)))

    # Step 5: replace IQR outliers with the column median.
    print("Step 5: replacing outliers (IQR method)...")
    for col in df.select_dtypes(include=[np.number]).columns:
        q1 = df[col].quantile(0.25)
        q3 = df[col].quantile(0.75)
        iqr = q3 - q1
        lower = q1 - IQR_FACTOR * iqr
        upper = q3 + IQR_FACTOR * iqr
        mask = (df[col] < lower) | (df[col] > upper)
        if mask.sum() > 0:
            df.loc[mask, col] = df[col].median()

    print("Saving cleaned data to " + output_csv + "...")
    df.to_csv(output_csv, index=False)

    print("")
    print("Cleaning summary:")
    print("  original rows: %d" % original_rows)
    print("  cleaned rows:  %d" % len(df))
    print("  rows removed:  %d" % (original_rows - len(df)))
    print("  columns:       %d" % len(df.columns))


if __name__ == "__main__":
    if len(sys.argv) < 2:
        print("Usage: python clean_data.py <input_csv> [output_csv]")
        sys.exit(1)
    out = sys.argv[2] if len(sys.argv) > 2 else "cleaned_data.csv"
    clean_data(sys.argv[1], out)
`
