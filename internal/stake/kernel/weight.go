package kernel

// GetWeight returns the coin-age time weight of the interval
// [intervalBegin, intervalEnd). The weight grows linearly with the holding
// time and is capped at maxStakeAge; an empty or inverted interval weighs 0.
// The weight is never negative, whatever the cap.
func GetWeight(intervalBegin, intervalEnd, maxStakeAge int64) int64 {
	if intervalEnd <= intervalBegin {
		return 0
	}
	return min(intervalEnd-intervalBegin, max(maxStakeAge, 0))
}

// Weight is GetWeight bounded by the params' StakeMaxAge.
func (p *Params) Weight(intervalBegin, intervalEnd int64) int64 {
	return GetWeight(intervalBegin, intervalEnd, p.StakeMaxAge)
}
