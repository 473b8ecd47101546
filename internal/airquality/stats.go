package airquality

// ComputeStatistics derives min, max and arithmetic mean per parameter in a
// single pass over the non-null values of each series. A parameter whose
// series is null, empty or entirely null gets no entry; statistics therefore
// always describe exactly the values a chart would plot.
func ComputeStatistics(h HourlyBlock) map[string]Stats {
	out := make(map[string]Stats, len(Parameters))

	for _, p := range Parameters {
		values := h.Series(p)
		if values == nil {
			continue
		}

		var (
			sum   float64
			count int
			min   float64
			max   float64
		)
		for _, v := range values {
			if v == nil {
				continue
			}
			if count == 0 {
				min, max = *v, *v
			} else {
				if *v < min {
					min = *v
				}
				if *v > max {
					max = *v
				}
			}
			sum += *v
			count++
		}

		if count == 0 {
			continue
		}

		out[string(p)] = Stats{
			Min: min,
			Max: max,
			Avg: sum / float64(count),
		}
	}

	return out
}
