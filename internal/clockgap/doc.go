// Package clockgap converts wall-clock times of day into arrival estimates
// and live time gaps.
//
// Times carry only hour and minute. Arrivals past midnight wrap to the next
// day's clock reading, so gaps longer than a day alias to shorter ones.
package clockgap
