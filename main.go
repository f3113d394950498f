package main

import (
	"log"
	"time"

	"fmtuner/media"
	"fmtuner/radio"

	"gobot.io/x/gobot"
	"gobot.io/x/gobot/platforms/raspi"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	adaptor := raspi.NewAdaptor()
	registry := media.NewRegistry()

	radioConfig := radio.RDA5807Config{
		StartupFrequencyKHz: 98000,
		Registry:            registry,
		Log:                 log.Printf,
	}
	tuner, err := radio.NewRDA5807Driver(adaptor, radioConfig)
	if err != nil {
		log.Fatalln(err)
	}

	work := func() {
		// The chip comes up muted; unmute and pick a volume to listen.
		if err = tuner.Controls().Set(media.CtrlAudioMute, 0); err != nil {
			log.Fatalln(err)
		}
		if err = tuner.Controls().Set(media.CtrlAudioVolume, 12); err != nil {
			log.Fatalln(err)
		}

		gobot.Every(1*time.Second, func() {
			info, err := tuner.TunerInfo(0)
			if err != nil {
				log.Fatalln(err)
			}

			stereo := "mono"
			switch info.RxSubchans {
			case media.SubStereo:
				stereo = "stereo"
			case media.SubMono | media.SubStereo:
				stereo = "unknown"
			}
			log.Printf("signal %d/65535, reception: %s\n", info.Signal, stereo)
		})
	}

	robot := gobot.NewRobot("FM receiver demo",
		[]gobot.Connection{adaptor},
		[]gobot.Device{tuner},
		work,
	)

	if err = robot.Start(); err != nil {
		log.Fatalln(err)
	}
}
